package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

type stubDailyLogStore struct {
	entries []models.DailyLog
	since   time.Time
}

func (stub *stubDailyLogStore) Create(entry *models.DailyLog) error {
	entry.ID = uint(len(stub.entries) + 1)
	stub.entries = append(stub.entries, *entry)
	return nil
}

func (stub *stubDailyLogStore) ListByPatientSince(patientID uint, since time.Time) ([]models.DailyLog, error) {
	stub.since = since
	result := make([]models.DailyLog, 0)
	for _, entry := range stub.entries {
		if entry.PatientID == patientID && !entry.LoggedAt.Before(since) {
			result = append(result, entry)
		}
	}
	return result, nil
}

type stubWeeklyLogStore struct {
	entries []models.WeeklyLog
	err     error
}

func (stub *stubWeeklyLogStore) Create(entry *models.WeeklyLog) error {
	if stub.err != nil {
		return stub.err
	}
	entry.ID = uint(len(stub.entries) + 1)
	stub.entries = append(stub.entries, *entry)
	return nil
}

func (stub *stubWeeklyLogStore) ListByPatientSince(patientID uint, since time.Time) ([]models.WeeklyLog, error) {
	if stub.err != nil {
		return nil, stub.err
	}
	result := make([]models.WeeklyLog, 0)
	for _, entry := range stub.entries {
		if entry.PatientID == patientID && !entry.LoggedAt.Before(since) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func boolPtr(value bool) *bool {
	return &value
}

func TestNormalizeDailyLogInput(t *testing.T) {
	if _, err := NormalizeDailyLogInput(DailyLogInput{}, statusTestNow); !errors.Is(err, ErrMedicationTakenRequired) {
		t.Fatalf("expected ErrMedicationTakenRequired, got %v", err)
	}

	entry, err := NormalizeDailyLogInput(DailyLogInput{
		MedicationTaken:  boolPtr(true),
		NauseaLevel:      floatPtr(12.4),
		WeightKg:         floatPtr(-3),
		OverallCondition: floatPtr(6.6),
		Vomiting:         true,
	}, statusTestNow)
	if err != nil {
		t.Fatalf("NormalizeDailyLogInput() unexpected error: %v", err)
	}
	if entry.NauseaLevel != 10 || !entry.MedicationTaken || !entry.Vomiting {
		t.Fatalf("unexpected normalized entry: %+v", entry)
	}
	if entry.WeightKg != nil {
		t.Fatalf("expected non-positive weight to be dropped, got %v", *entry.WeightKg)
	}
	if entry.OverallCondition == nil || *entry.OverallCondition != 7 {
		t.Fatalf("expected overall condition 7, got %v", entry.OverallCondition)
	}
	if !entry.LoggedAt.Equal(statusTestNow) {
		t.Fatalf("expected logged_at %s, got %s", statusTestNow, entry.LoggedAt)
	}

	nan, err := NormalizeDailyLogInput(DailyLogInput{MedicationTaken: boolPtr(false), NauseaLevel: floatPtr(math.NaN())}, statusTestNow)
	if err != nil || nan.NauseaLevel != 0 {
		t.Fatalf("expected NaN nausea to default to 0, got %d (%v)", nan.NauseaLevel, err)
	}
}

func TestNormalizeDailyLogInputClampsHugeNausea(t *testing.T) {
	entry, err := NormalizeDailyLogInput(DailyLogInput{
		MedicationTaken:  boolPtr(true),
		NauseaLevel:      floatPtr(1e20),
		OverallCondition: floatPtr(-1e20),
	}, statusTestNow)
	if err != nil {
		t.Fatalf("NormalizeDailyLogInput() unexpected error: %v", err)
	}
	if entry.NauseaLevel != models.MaxNauseaLevel {
		t.Fatalf("expected nausea clamped to %d, got %d", models.MaxNauseaLevel, entry.NauseaLevel)
	}
	if entry.OverallCondition == nil || *entry.OverallCondition != 0 {
		t.Fatalf("expected overall condition clamped to 0, got %v", entry.OverallCondition)
	}

	signal := ClassifySignal([]models.DailyLog{entry})
	if signal.Color != SignalRed {
		t.Fatalf("expected red signal for clamped severe nausea, got %+v", signal)
	}
}

func TestNormalizeWeeklyLogInput(t *testing.T) {
	tests := []struct {
		name  string
		input WeeklyLogInput
		want  error
	}{
		{name: "missing weight", input: WeeklyLogInput{}, want: ErrWeeklyWeightInvalid},
		{name: "weight too low", input: WeeklyLogInput{WeightKg: floatPtr(19.9)}, want: ErrWeeklyWeightInvalid},
		{name: "weight too high", input: WeeklyLogInput{WeightKg: floatPtr(400.1)}, want: ErrWeeklyWeightInvalid},
		{name: "body fat too high", input: WeeklyLogInput{WeightKg: floatPtr(80), BodyFatPercent: floatPtr(95)}, want: ErrBodyFatInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeWeeklyLogInput(tt.input, statusTestNow); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	entry, err := NormalizeWeeklyLogInput(WeeklyLogInput{
		WeightKg:          floatPtr(20),
		BodyFatPercent:    floatPtr(31.5),
		AppetiteChange:    "감소",
		ExerciseFrequency: "",
	}, statusTestNow)
	if err != nil {
		t.Fatalf("NormalizeWeeklyLogInput() unexpected error: %v", err)
	}
	if entry.AppetiteChange != models.AppetiteDecreased || entry.ExerciseFrequency != models.ExerciseNone {
		t.Fatalf("unexpected enums: %+v", entry)
	}
}

func TestLogServiceRecordAndStatus(t *testing.T) {
	daily := &stubDailyLogStore{}
	weekly := &stubWeeklyLogStore{}
	service := NewLogService(daily, weekly)

	for day := 6; day >= 0; day-- {
		at := statusTestNow.Add(-time.Duration(day) * 24 * time.Hour)
		if _, err := service.RecordDaily(3, DailyLogInput{MedicationTaken: boolPtr(true), NauseaLevel: floatPtr(1)}, at); err != nil {
			t.Fatalf("record daily: %v", err)
		}
	}
	if _, err := service.RecordWeekly(3, WeeklyLogInput{WeightKg: floatPtr(90)}, statusTestNow.Add(-21*24*time.Hour)); err != nil {
		t.Fatalf("record weekly: %v", err)
	}
	if _, err := service.RecordWeekly(3, WeeklyLogInput{WeightKg: floatPtr(88.2)}, statusTestNow); err != nil {
		t.Fatalf("record weekly: %v", err)
	}

	status, err := service.Status(3, statusTestNow)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.SignalColor != SignalGreen || status.AdherenceRate != 100 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.WeightChange == nil || math.Abs(*status.WeightChange+1.8) > 1e-9 {
		t.Fatalf("expected weight change -1.8, got %v", status.WeightChange)
	}
	if !daily.since.Equal(statusTestNow.Add(-StatusLookbackDays * 24 * time.Hour)) {
		t.Fatalf("expected status lookback of %d days, got since %s", StatusLookbackDays, daily.since)
	}

	otherStatus, err := service.Status(4, statusTestNow)
	if err != nil {
		t.Fatalf("status for other patient: %v", err)
	}
	if otherStatus.SignalColor != SignalYellow || otherStatus.DaysSinceLastDaily != nil {
		t.Fatalf("expected no-data status for other patient, got %+v", otherStatus)
	}
}

func TestLogServiceHistoryClampsDays(t *testing.T) {
	daily := &stubDailyLogStore{}
	service := NewLogService(daily, &stubWeeklyLogStore{})

	history, err := service.DailyHistory(1, 0, statusTestNow)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Days != DefaultHistoryDays {
		t.Fatalf("expected default history of %d days, got %d", DefaultHistoryDays, history.Days)
	}
	if !daily.since.Equal(statusTestNow.Add(-DefaultHistoryDays * 24 * time.Hour)) {
		t.Fatalf("unexpected daily since %s", daily.since)
	}

	history, err = service.WeeklyHistory(1, 5000, statusTestNow)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history.Days != MaxHistoryDays {
		t.Fatalf("expected history clamp to %d days, got %d", MaxHistoryDays, history.Days)
	}
}

func TestLogServiceHistoryReadsOnlyRequestedTable(t *testing.T) {
	storeErr := errors.New("weekly table unavailable")
	daily := &stubDailyLogStore{entries: []models.DailyLog{
		{PatientID: 1, LoggedAt: statusTestNow.Add(-time.Hour), MedicationTaken: true},
	}}
	service := NewLogService(daily, &stubWeeklyLogStore{err: storeErr})

	history, err := service.DailyHistory(1, 7, statusTestNow)
	if err != nil {
		t.Fatalf("daily history should not touch the weekly store: %v", err)
	}
	if len(history.DailyLogs) != 1 || history.WeeklyLogs != nil {
		t.Fatalf("unexpected daily history: %+v", history)
	}

	if _, err := service.WeeklyHistory(1, 7, statusTestNow); !errors.Is(err, storeErr) {
		t.Fatalf("expected weekly store error, got %v", err)
	}
}

func TestLogServiceWrapsStoreErrors(t *testing.T) {
	storeErr := errors.New("disk full")
	service := NewLogService(&stubDailyLogStore{}, &stubWeeklyLogStore{err: storeErr})

	if _, err := service.RecordWeekly(1, WeeklyLogInput{WeightKg: floatPtr(80)}, statusTestNow); !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, err := service.Report(models.Patient{ID: 1}, 14, statusTestNow); !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error from report, got %v", err)
	}
}
