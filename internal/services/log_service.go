package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
	StatusLookbackDays = 90
	MaxBodyFatPercent  = 80
)

var (
	ErrMedicationTakenRequired = errors.New("medication_taken is required")
	ErrWeeklyWeightInvalid     = errors.New("weekly weight out of range")
	ErrBodyFatInvalid          = errors.New("body fat percent out of range")
)

type DailyLogStore interface {
	Create(entry *models.DailyLog) error
	ListByPatientSince(patientID uint, since time.Time) ([]models.DailyLog, error)
}

type WeeklyLogStore interface {
	Create(entry *models.WeeklyLog) error
	ListByPatientSince(patientID uint, since time.Time) ([]models.WeeklyLog, error)
}

type DailyLogInput struct {
	MedicationTaken     *bool    `json:"medication_taken"`
	NauseaLevel         *float64 `json:"nausea_level"`
	Vomiting            bool     `json:"vomiting"`
	WeightKg            *float64 `json:"weight_kg"`
	Dizziness           bool     `json:"dizziness"`
	AbdominalDiscomfort bool     `json:"abdominal_discomfort"`
	OverallCondition    *float64 `json:"overall_condition"`
}

type WeeklyLogInput struct {
	WeightKg          *float64 `json:"weight_kg"`
	BodyFatPercent    *float64 `json:"body_fat_percent"`
	AppetiteChange    string   `json:"appetite_change"`
	MealAmountChange  string   `json:"meal_amount_change"`
	ExerciseFrequency string   `json:"exercise_frequency"`
}

type LogHistory struct {
	Days       int                `json:"days"`
	DailyLogs  []models.DailyLog  `json:"daily_logs,omitempty"`
	WeeklyLogs []models.WeeklyLog `json:"weekly_logs,omitempty"`
}

type LogService struct {
	daily  DailyLogStore
	weekly WeeklyLogStore
}

func NewLogService(daily DailyLogStore, weekly WeeklyLogStore) *LogService {
	return &LogService{daily: daily, weekly: weekly}
}

func NormalizeDailyLogInput(input DailyLogInput, now time.Time) (models.DailyLog, error) {
	if input.MedicationTaken == nil {
		return models.DailyLog{}, ErrMedicationTakenRequired
	}

	entry := models.DailyLog{
		LoggedAt:            now.UTC(),
		MedicationTaken:     *input.MedicationTaken,
		Vomiting:            input.Vomiting,
		Dizziness:           input.Dizziness,
		AbdominalDiscomfort: input.AbdominalDiscomfort,
	}
	if input.NauseaLevel != nil && isFinite(*input.NauseaLevel) {
		entry.NauseaLevel = ClampNausea(*input.NauseaLevel)
	}
	if input.WeightKg != nil && isFinite(*input.WeightKg) && *input.WeightKg > 0 {
		weight := *input.WeightKg
		entry.WeightKg = &weight
	}
	if input.OverallCondition != nil && isFinite(*input.OverallCondition) {
		condition := ClampNausea(*input.OverallCondition)
		entry.OverallCondition = &condition
	}
	return entry, nil
}

func NormalizeWeeklyLogInput(input WeeklyLogInput, now time.Time) (models.WeeklyLog, error) {
	if input.WeightKg == nil || !isFinite(*input.WeightKg) {
		return models.WeeklyLog{}, ErrWeeklyWeightInvalid
	}
	weight := *input.WeightKg
	if weight < models.MinWeeklyWeightKg || weight > models.MaxWeeklyWeightKg {
		return models.WeeklyLog{}, ErrWeeklyWeightInvalid
	}

	entry := models.WeeklyLog{
		LoggedAt:          now.UTC(),
		WeightKg:          weight,
		AppetiteChange:    NormalizeAppetite(input.AppetiteChange),
		MealAmountChange:  strings.TrimSpace(input.MealAmountChange),
		ExerciseFrequency: NormalizeExercise(input.ExerciseFrequency),
	}
	if input.BodyFatPercent != nil {
		bodyFat := *input.BodyFatPercent
		if !isFinite(bodyFat) || bodyFat <= 0 || bodyFat > MaxBodyFatPercent {
			return models.WeeklyLog{}, ErrBodyFatInvalid
		}
		entry.BodyFatPercent = &bodyFat
	}
	return entry, nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func (service *LogService) RecordDaily(patientID uint, input DailyLogInput, now time.Time) (models.DailyLog, error) {
	entry, err := NormalizeDailyLogInput(input, now)
	if err != nil {
		return models.DailyLog{}, err
	}
	entry.PatientID = patientID
	if err := service.daily.Create(&entry); err != nil {
		return models.DailyLog{}, fmt.Errorf("create daily log: %w", err)
	}
	return entry, nil
}

func (service *LogService) RecordWeekly(patientID uint, input WeeklyLogInput, now time.Time) (models.WeeklyLog, error) {
	entry, err := NormalizeWeeklyLogInput(input, now)
	if err != nil {
		return models.WeeklyLog{}, err
	}
	entry.PatientID = patientID
	if err := service.weekly.Create(&entry); err != nil {
		return models.WeeklyLog{}, fmt.Errorf("create weekly log: %w", err)
	}
	return entry, nil
}

func ClampHistoryDays(days int) int {
	switch {
	case days <= 0:
		return DefaultHistoryDays
	case days > MaxHistoryDays:
		return MaxHistoryDays
	default:
		return days
	}
}

func (service *LogService) loadSince(patientID uint, since time.Time) ([]models.DailyLog, []models.WeeklyLog, error) {
	daily, err := service.daily.ListByPatientSince(patientID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("load daily logs: %w", err)
	}
	weekly, err := service.weekly.ListByPatientSince(patientID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("load weekly logs: %w", err)
	}
	return daily, weekly, nil
}

// DailyHistory lists only daily entries; the weekly table is not read.
func (service *LogService) DailyHistory(patientID uint, days int, now time.Time) (LogHistory, error) {
	days = ClampHistoryDays(days)
	daily, err := service.daily.ListByPatientSince(patientID, windowStart(now, days))
	if err != nil {
		return LogHistory{}, fmt.Errorf("load daily logs: %w", err)
	}
	return LogHistory{Days: days, DailyLogs: daily}, nil
}

func (service *LogService) WeeklyHistory(patientID uint, days int, now time.Time) (LogHistory, error) {
	days = ClampHistoryDays(days)
	weekly, err := service.weekly.ListByPatientSince(patientID, windowStart(now, days))
	if err != nil {
		return LogHistory{}, fmt.Errorf("load weekly logs: %w", err)
	}
	return LogHistory{Days: days, WeeklyLogs: weekly}, nil
}

func (service *LogService) Status(patientID uint, now time.Time) (ComputedStatus, error) {
	daily, weekly, err := service.loadSince(patientID, windowStart(now, StatusLookbackDays))
	if err != nil {
		return ComputedStatus{}, err
	}
	return ComputeStatus(daily, weekly, now), nil
}

func (service *LogService) Report(patient models.Patient, periodDays int, now time.Time) (PatientReport, error) {
	periodDays = NormalizeReportPeriod(periodDays)
	daily, weekly, err := service.loadSince(patient.ID, windowStart(now, periodDays))
	if err != nil {
		return PatientReport{}, err
	}
	return BuildPatientReport(patient.UserID, daily, weekly, now, periodDays), nil
}
