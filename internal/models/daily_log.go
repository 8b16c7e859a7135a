package models

import "time"

const (
	MinNauseaLevel = 0
	MaxNauseaLevel = 10
)

// DailyLog is one self-reported day. Rows are append-only.
type DailyLog struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	PatientID           uint      `gorm:"not null;index:idx_daily_logs_patient_logged_at" json:"-"`
	LoggedAt            time.Time `gorm:"not null;index:idx_daily_logs_patient_logged_at" json:"timestamp"`
	MedicationTaken     bool      `gorm:"not null;default:false" json:"medication_taken"`
	NauseaLevel         int       `gorm:"not null;default:0" json:"nausea_level"`
	Vomiting            bool      `gorm:"not null;default:false" json:"vomiting"`
	WeightKg            *float64  `json:"weight_kg,omitempty"`
	Dizziness           bool      `gorm:"not null;default:false" json:"dizziness"`
	AbdominalDiscomfort bool      `gorm:"not null;default:false" json:"abdominal_discomfort"`
	OverallCondition    *int      `json:"overall_condition,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
