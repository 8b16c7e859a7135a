package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

const (
	DefaultDashboardWeeks = 4
	MinDashboardWeeks     = 1
	MaxDashboardWeeks     = 26
)

var (
	ErrDashboardFilterInvalid = errors.New("dashboard filter invalid")
	ErrPatientOtherClinic     = errors.New("patient belongs to another clinic")
)

type ClinicPatientReader interface {
	ListByClinic(clinicID string) ([]models.Patient, error)
	FindByPatientCode(code string) (models.Patient, error)
}

type ClinicDailyReader interface {
	ListByPatientsRange(patientIDs []uint, from time.Time, to time.Time) ([]models.DailyLog, error)
}

type ClinicWeeklyReader interface {
	ListByPatientsRange(patientIDs []uint, from time.Time, to time.Time) ([]models.WeeklyLog, error)
}

type DashboardFilter struct {
	Weeks  int
	Status string
	Color  string
}

type DashboardPatient struct {
	models.Patient
	ComputedStatus ComputedStatus `json:"computed_status"`
}

type DashboardSummary struct {
	Red        int `json:"red"`
	Yellow     int `json:"yellow"`
	Green      int `json:"green"`
	Active     int `json:"active"`
	Paused     int `json:"paused"`
	Discharged int `json:"discharged"`
}

type Dashboard struct {
	ClinicID string             `json:"clinic_id"`
	Weeks    int                `json:"weeks"`
	Patients []DashboardPatient `json:"patients"`
	Total    int                `json:"total"`
	Summary  DashboardSummary   `json:"summary"`
}

type DashboardService struct {
	patients ClinicPatientReader
	daily    ClinicDailyReader
	weekly   ClinicWeeklyReader
}

func NewDashboardService(patients ClinicPatientReader, daily ClinicDailyReader, weekly ClinicWeeklyReader) *DashboardService {
	return &DashboardService{patients: patients, daily: daily, weekly: weekly}
}

// ClampDashboardWeeks treats 0 as "not provided".
func ClampDashboardWeeks(weeks int) int {
	switch {
	case weeks == 0:
		return DefaultDashboardWeeks
	case weeks < MinDashboardWeeks:
		return MinDashboardWeeks
	case weeks > MaxDashboardWeeks:
		return MaxDashboardWeeks
	default:
		return weeks
	}
}

// PatientInClinic matches on clinic id (any case) or on the clinic prefix
// of the patient code.
func PatientInClinic(patient models.Patient, clinicID string) bool {
	clinic := strings.ToUpper(strings.TrimSpace(clinicID))
	if clinic == "" {
		return false
	}
	if strings.ToUpper(strings.TrimSpace(patient.ClinicID)) == clinic {
		return true
	}
	code := strings.ToUpper(strings.TrimSpace(patient.PatientCodeValue()))
	return code != "" && strings.HasPrefix(code, clinic+"-")
}

// lookbackWeeks always covers the weight-change window.
func lookbackWeeks(weeks int) int {
	if weeks < WeightContextWeeks {
		return WeightContextWeeks
	}
	return weeks
}

func normalizeDashboardFilter(filter DashboardFilter) (DashboardFilter, error) {
	filter.Weeks = ClampDashboardWeeks(filter.Weeks)

	if raw := strings.TrimSpace(filter.Status); raw != "" {
		status := NormalizePatientStatus(raw)
		if status == "" {
			return DashboardFilter{}, fmt.Errorf("%w: status %q", ErrDashboardFilterInvalid, raw)
		}
		filter.Status = status
	}

	switch color := SignalColor(strings.ToLower(strings.TrimSpace(filter.Color))); color {
	case "", SignalRed, SignalYellow, SignalGreen:
		filter.Color = string(color)
	default:
		return DashboardFilter{}, fmt.Errorf("%w: color %q", ErrDashboardFilterInvalid, filter.Color)
	}
	return filter, nil
}

func (service *DashboardService) BuildDashboard(clinicID string, filter DashboardFilter, now time.Time) (Dashboard, error) {
	filter, err := normalizeDashboardFilter(filter)
	if err != nil {
		return Dashboard{}, err
	}

	patients, err := service.patients.ListByClinic(clinicID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list clinic patients: %w", err)
	}

	dashboard := Dashboard{ClinicID: clinicID, Weeks: filter.Weeks, Patients: make([]DashboardPatient, 0)}
	selected := make([]models.Patient, 0, len(patients))
	for _, patient := range patients {
		switch patient.Status {
		case models.PatientStatusActive:
			dashboard.Summary.Active++
		case models.PatientStatusPaused:
			dashboard.Summary.Paused++
		case models.PatientStatusDischarged:
			dashboard.Summary.Discharged++
		}
		if filter.Status == "" || patient.Status == filter.Status {
			selected = append(selected, patient)
		}
	}
	if len(selected) == 0 {
		return dashboard, nil
	}

	dailyByPatient, weeklyByPatient, err := service.loadLogs(selected, windowStart(now, lookbackWeeks(filter.Weeks)*7), now)
	if err != nil {
		return Dashboard{}, err
	}

	for _, patient := range selected {
		status := ComputeStatus(dailyByPatient[patient.ID], weeklyByPatient[patient.ID], now)
		switch status.SignalColor {
		case SignalRed:
			dashboard.Summary.Red++
		case SignalYellow:
			dashboard.Summary.Yellow++
		case SignalGreen:
			dashboard.Summary.Green++
		}
		if filter.Color != "" && string(status.SignalColor) != filter.Color {
			continue
		}
		dashboard.Patients = append(dashboard.Patients, DashboardPatient{Patient: patient, ComputedStatus: status})
	}
	dashboard.Total = len(dashboard.Patients)
	return dashboard, nil
}

func (service *DashboardService) loadLogs(patients []models.Patient, from time.Time, now time.Time) (map[uint][]models.DailyLog, map[uint][]models.WeeklyLog, error) {
	ids := make([]uint, 0, len(patients))
	for _, patient := range patients {
		ids = append(ids, patient.ID)
	}

	daily, err := service.daily.ListByPatientsRange(ids, from, now)
	if err != nil {
		return nil, nil, fmt.Errorf("load clinic daily logs: %w", err)
	}
	weekly, err := service.weekly.ListByPatientsRange(ids, from, now)
	if err != nil {
		return nil, nil, fmt.Errorf("load clinic weekly logs: %w", err)
	}

	dailyByPatient := make(map[uint][]models.DailyLog, len(patients))
	for _, entry := range daily {
		dailyByPatient[entry.PatientID] = append(dailyByPatient[entry.PatientID], entry)
	}
	weeklyByPatient := make(map[uint][]models.WeeklyLog, len(patients))
	for _, entry := range weekly {
		weeklyByPatient[entry.PatientID] = append(weeklyByPatient[entry.PatientID], entry)
	}
	return dailyByPatient, weeklyByPatient, nil
}

// ListPatients returns the clinic roster entries that carry a patient code.
func (service *DashboardService) ListPatients(clinicID string) ([]models.Patient, error) {
	patients, err := service.patients.ListByClinic(clinicID)
	if err != nil {
		return nil, fmt.Errorf("list clinic patients: %w", err)
	}
	withCode := make([]models.Patient, 0, len(patients))
	for _, patient := range patients {
		if patient.PatientCodeValue() != "" {
			withCode = append(withCode, patient)
		}
	}
	return withCode, nil
}

func (service *DashboardService) PatientReport(clinicID string, patientCode string, weeks int, now time.Time) (ClinicPatientReport, error) {
	patient, err := service.patients.FindByPatientCode(patientCode)
	if err != nil {
		if isRecordNotFound(err) {
			return ClinicPatientReport{}, ErrPatientNotFound
		}
		return ClinicPatientReport{}, fmt.Errorf("load patient by code: %w", err)
	}
	if !PatientInClinic(patient, clinicID) {
		return ClinicPatientReport{}, ErrPatientOtherClinic
	}

	weeks = ClampDashboardWeeks(weeks)
	dailyByPatient, weeklyByPatient, err := service.loadLogs([]models.Patient{patient}, windowStart(now, lookbackWeeks(weeks)*7), now)
	if err != nil {
		return ClinicPatientReport{}, err
	}
	return BuildClinicPatientReport(patient, dailyByPatient[patient.ID], weeklyByPatient[patient.ID], now, weeks), nil
}
