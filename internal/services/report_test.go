package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

func TestNormalizeReportPeriod(t *testing.T) {
	cases := map[int]int{0: 14, 7: 14, 14: 14, 30: 30, 90: 14}
	for input, expected := range cases {
		if got := NormalizeReportPeriod(input); got != expected {
			t.Errorf("NormalizeReportPeriod(%d) = %d, want %d", input, got, expected)
		}
	}
}

func TestBuildPatientReportStats(t *testing.T) {
	daily := []models.DailyLog{
		dailyLogDaysAgo(1, true, 2, false),
		dailyLogDaysAgo(3, false, 5, false),
		dailyLogDaysAgo(10, true, 8, true),
		dailyLogDaysAgo(20, true, 9, true),
	}
	weekly := []models.WeeklyLog{
		weeklyLogDaysAgo(13, 90),
		weeklyLogDaysAgo(6, 88.75),
		weeklyLogDaysAgo(25, 95),
	}

	report := BuildPatientReport("user-1", daily, weekly, statusTestNow, 0)

	if report.PeriodDays != ReportPeriodShort || !report.PeriodEnd.Equal(statusTestNow) {
		t.Fatalf("unexpected period: %d ending %s", report.PeriodDays, report.PeriodEnd)
	}
	stats := report.Stats
	if stats.RecordsCount != 3 || stats.MissedMedication != 1 || stats.AdherenceRate != 67 {
		t.Fatalf("unexpected adherence stats: %+v", stats)
	}
	if stats.AvgNausea != 5 || stats.MaxNausea != 8 || stats.VomitingCount != 1 {
		t.Fatalf("unexpected nausea stats: %+v", stats)
	}
	if stats.WeightStart == nil || *stats.WeightStart != 90 || stats.WeightLatest == nil || *stats.WeightLatest != 88.75 {
		t.Fatalf("unexpected weight bounds: %+v", stats)
	}
	if stats.WeightChange == nil || *stats.WeightChange != -1.3 {
		t.Fatalf("expected weight change -1.3, got %v", stats.WeightChange)
	}

	// The signal ignores the day 10 vomiting entry because triage covers 7 days.
	if report.Signal.Color != SignalYellow {
		t.Fatalf("expected yellow signal, got %+v", report.Signal)
	}
	if len(report.DailyLogs) != 3 || len(report.WeeklyLogs) != 2 {
		t.Fatalf("expected logs limited to period, got %d daily %d weekly", len(report.DailyLogs), len(report.WeeklyLogs))
	}
}

func TestBuildPatientReportSingleWeeklyHasNoChange(t *testing.T) {
	report := BuildPatientReport("user-1", nil, []models.WeeklyLog{weeklyLogDaysAgo(2, 80)}, statusTestNow, 30)
	if report.PeriodDays != ReportPeriodLong {
		t.Fatalf("expected 30 day period, got %d", report.PeriodDays)
	}
	if report.Stats.WeightChange != nil {
		t.Fatalf("expected no weight change for one entry, got %v", *report.Stats.WeightChange)
	}
	if report.Signal.Color != SignalYellow || report.Signal.Reasons[0] != ReasonNoRecentData {
		t.Fatalf("expected no-data signal, got %+v", report.Signal)
	}
}

func TestMergeChartPointsByCalendarDay(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	dailyWeight := 81.0
	daily := []models.DailyLog{
		{LoggedAt: day.Add(8 * time.Hour), MedicationTaken: true, NauseaLevel: 3, WeightKg: &dailyWeight},
		{LoggedAt: day.Add(26 * time.Hour), MedicationTaken: false, NauseaLevel: 6},
	}
	weekly := []models.WeeklyLog{{LoggedAt: day.Add(20 * time.Hour), WeightKg: 80.5}}

	points := mergeChartPoints(daily, weekly)
	if len(points) != 2 {
		t.Fatalf("expected 2 chart points, got %d", len(points))
	}
	if points[0].Date != "2026-03-10" || points[1].Date != "2026-03-11" {
		t.Fatalf("unexpected chart dates: %+v", points)
	}
	if points[0].WeightKg == nil || *points[0].WeightKg != 80.5 {
		t.Fatalf("expected weekly weight to win, got %v", points[0].WeightKg)
	}
	if points[1].NauseaLevel == nil || *points[1].NauseaLevel != 6 || points[1].WeightKg != nil {
		t.Fatalf("unexpected second point: %+v", points[1])
	}
}

func TestBuildClinicPatientReportSummary(t *testing.T) {
	code := "C001-4827"
	patient := models.Patient{ID: 4, PatientCode: &code, ClinicID: "C001"}
	good, poor := 8, 5

	daily := []models.DailyLog{
		dailyLogDaysAgo(1, true, 2, false),
		dailyLogDaysAgo(2, true, 4, false),
		dailyLogDaysAgo(9, false, 3, false),
		dailyLogDaysAgo(40, true, 9, true),
	}
	daily[0].OverallCondition = &good
	daily[2].OverallCondition = &poor
	weekly := []models.WeeklyLog{
		weeklyLogDaysAgo(14, 100),
		weeklyLogDaysAgo(0, 97),
	}

	report := BuildClinicPatientReport(patient, daily, weekly, statusTestNow, 2)
	if report.PeriodWeeks != 2 {
		t.Fatalf("expected 2 week period, got %d", report.PeriodWeeks)
	}
	summary := report.Summary
	if summary.TotalDailyResponses != 3 || summary.TotalWeeklyResponses != 2 {
		t.Fatalf("unexpected response counts: %+v", summary)
	}
	if summary.AdherenceRate != 67 || summary.AvgNausea != 3 || summary.AvgCondition != 6.5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.WeightChange == nil || *summary.WeightChange != -3 {
		t.Fatalf("expected weight change -3, got %v", summary.WeightChange)
	}
	if summary.WeightChangePercent == nil || *summary.WeightChangePercent != -3 {
		t.Fatalf("expected weight change percent -3, got %v", summary.WeightChangePercent)
	}
	if len(report.DailyChartData) != 3 || report.DailyChartData[0].Date > report.DailyChartData[2].Date {
		t.Fatalf("expected ascending daily chart rows, got %+v", report.DailyChartData)
	}
	if report.ComputedStatus.SignalColor != SignalGreen {
		t.Fatalf("expected green computed status, got %+v", report.ComputedStatus)
	}
}
