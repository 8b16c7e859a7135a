package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PatientStatusActive     = "active"
	PatientStatusPaused     = "paused"
	PatientStatusDischarged = "discharged"
)

const DefaultWeeklyDay = "MON"

// Patient is one tracked identity. Self-registered patients carry an Email;
// clinic-imported patients carry a ClinicID and PatientCode. Columns of an
// imported row that have no typed field are kept in Attributes.
type Patient struct {
	ID          uint              `gorm:"primaryKey" json:"-"`
	UserID      string            `gorm:"not null;uniqueIndex" json:"user_id"`
	Email       *string           `gorm:"uniqueIndex" json:"email,omitempty"`
	ClinicID    string            `gorm:"not null;default:'';index" json:"clinic_id,omitempty"`
	PatientCode *string           `gorm:"uniqueIndex" json:"patient_code,omitempty"`
	DisplayName string            `gorm:"not null;default:''" json:"name_or_initial,omitempty"`
	Status      string            `gorm:"not null;default:active" json:"status"`
	WeeklyDay   string            `gorm:"not null;default:MON" json:"weekly_day"`
	Consent     bool              `gorm:"not null;default:false" json:"consent"`
	Attributes  datatypes.JSONMap `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (patient Patient) EmailValue() string {
	if patient.Email == nil {
		return ""
	}
	return *patient.Email
}

func (patient Patient) PatientCodeValue() string {
	if patient.PatientCode == nil {
		return ""
	}
	return *patient.PatientCode
}
