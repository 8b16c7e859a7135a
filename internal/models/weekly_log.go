package models

import "time"

const (
	AppetiteDecreased  = "decreased"
	AppetiteMaintained = "maintained"
	AppetiteIncreased  = "increased"
)

const (
	ExerciseNone       = "none"
	ExerciseOnce       = "1x"
	ExerciseTwoToThree = "2-3x"
	ExerciseFourPlus   = "4x+"
)

const (
	MinWeeklyWeightKg = 20.0
	MaxWeeklyWeightKg = 400.0
)

// WeeklyLog is one self-reported week. Rows are append-only.
type WeeklyLog struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PatientID         uint      `gorm:"not null;index:idx_weekly_logs_patient_logged_at" json:"-"`
	LoggedAt          time.Time `gorm:"not null;index:idx_weekly_logs_patient_logged_at" json:"timestamp"`
	WeightKg          float64   `gorm:"not null" json:"weight_kg"`
	BodyFatPercent    *float64  `json:"body_fat_percent,omitempty"`
	AppetiteChange    string    `gorm:"not null;default:maintained" json:"appetite_change"`
	MealAmountChange  string    `gorm:"not null;default:''" json:"meal_amount_change,omitempty"`
	ExerciseFrequency string    `gorm:"not null;default:none" json:"exercise_frequency"`
	CreatedAt         time.Time `json:"created_at"`
}
