package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

const (
	ReportPeriodShort = 14
	ReportPeriodLong  = 30
)

const chartDateLayout = "2006-01-02"

// NormalizeReportPeriod maps any request value onto the two supported
// report lengths.
func NormalizeReportPeriod(days int) int {
	if days == ReportPeriodLong {
		return ReportPeriodLong
	}
	return ReportPeriodShort
}

type ReportStats struct {
	TotalDays        int      `json:"total_days"`
	RecordsCount     int      `json:"records_count"`
	AdherenceRate    int      `json:"adherence_rate"`
	AvgNausea        float64  `json:"avg_nausea"`
	MaxNausea        int      `json:"max_nausea"`
	VomitingCount    int      `json:"vomiting_count"`
	MissedMedication int      `json:"missed_medication"`
	WeightStart      *float64 `json:"weight_start,omitempty"`
	WeightLatest     *float64 `json:"weight_latest,omitempty"`
	WeightChange     *float64 `json:"weight_change,omitempty"`
}

type ChartPoint struct {
	Date            string   `json:"date"`
	NauseaLevel     *int     `json:"nausea_level,omitempty"`
	MedicationTaken *bool    `json:"medication_taken,omitempty"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	Vomiting        *bool    `json:"vomiting,omitempty"`
}

type PatientReport struct {
	UserID      string             `json:"user_id"`
	PeriodDays  int                `json:"period_days"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	DailyLogs   []models.DailyLog  `json:"daily_logs"`
	WeeklyLogs  []models.WeeklyLog `json:"weekly_logs"`
	Signal      Signal             `json:"signal"`
	Stats       ReportStats        `json:"stats"`
	ChartData   []ChartPoint       `json:"chart_data"`
}

// BuildPatientReport summarizes one patient over periodDays. The signal
// always reflects the last seven days regardless of the period.
func BuildPatientReport(userID string, daily []models.DailyLog, weekly []models.WeeklyLog, now time.Time, periodDays int) PatientReport {
	periodDays = NormalizeReportPeriod(periodDays)
	from := windowStart(now, periodDays)

	periodDaily := dailyLogsBetween(daily, from, now)
	periodWeekly := weeklyLogsBetween(weekly, from, now)
	window := ComputeWindow(periodDaily, now, periodDays)
	triage := ComputeWindow(daily, now, TriageWindowDays)

	stats := ReportStats{
		TotalDays:        periodDays,
		RecordsCount:     window.Total,
		AdherenceRate:    window.AdherenceRate,
		AvgNausea:        averageNausea(periodDaily),
		MaxNausea:        window.MaxNausea,
		VomitingCount:    window.VomitingCount,
		MissedMedication: window.Missed,
	}
	if len(periodWeekly) > 0 {
		start := periodWeekly[0].WeightKg
		latest := periodWeekly[len(periodWeekly)-1].WeightKg
		stats.WeightStart = &start
		stats.WeightLatest = &latest
		if len(periodWeekly) >= 2 {
			change := roundTo(latest-start, 1)
			stats.WeightChange = &change
		}
	}

	return PatientReport{
		UserID:      userID,
		PeriodDays:  periodDays,
		PeriodStart: from.UTC(),
		PeriodEnd:   now.UTC(),
		DailyLogs:   periodDaily,
		WeeklyLogs:  periodWeekly,
		Signal:      ClassifySignal(triage.Filtered),
		Stats:       stats,
		ChartData:   mergeChartPoints(periodDaily, periodWeekly),
	}
}

func averageNausea(logs []models.DailyLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	total := 0
	for _, entry := range logs {
		total += entry.NauseaLevel
	}
	return roundTo(float64(total)/float64(len(logs)), 1)
}

// mergeChartPoints folds daily and weekly entries into one point per UTC
// calendar day. Later entries on the same day win; weekly weight overrides
// the daily one.
func mergeChartPoints(daily []models.DailyLog, weekly []models.WeeklyLog) []ChartPoint {
	points := make(map[string]*ChartPoint)
	pointFor := func(at time.Time) *ChartPoint {
		date := at.UTC().Format(chartDateLayout)
		point, ok := points[date]
		if !ok {
			point = &ChartPoint{Date: date}
			points[date] = point
		}
		return point
	}

	for _, entry := range daily {
		point := pointFor(entry.LoggedAt)
		nausea := entry.NauseaLevel
		taken := entry.MedicationTaken
		vomiting := entry.Vomiting
		point.NauseaLevel = &nausea
		point.MedicationTaken = &taken
		point.Vomiting = &vomiting
		point.WeightKg = entry.WeightKg
	}
	for _, entry := range weekly {
		weight := entry.WeightKg
		pointFor(entry.LoggedAt).WeightKg = &weight
	}

	merged := make([]ChartPoint, 0, len(points))
	for _, point := range points {
		merged = append(merged, *point)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	return merged
}

type DailyChartRow struct {
	Date             string `json:"date"`
	MedicationTaken  bool   `json:"medication_taken"`
	NauseaLevel      int    `json:"nausea_level"`
	OverallCondition *int   `json:"overall_condition,omitempty"`
}

type WeeklyChartRow struct {
	Date           string   `json:"date"`
	WeightKg       float64  `json:"weight_kg"`
	BodyFatPercent *float64 `json:"body_fat_percent,omitempty"`
}

type ClinicReportSummary struct {
	TotalDailyResponses  int      `json:"total_daily_responses"`
	TotalWeeklyResponses int      `json:"total_weekly_responses"`
	AdherenceRate        int      `json:"adherence_rate"`
	AvgNausea            float64  `json:"avg_nausea"`
	AvgCondition         float64  `json:"avg_condition"`
	WeightChange         *float64 `json:"weight_change,omitempty"`
	WeightChangePercent  *float64 `json:"weight_change_percent,omitempty"`
}

type ClinicPatientReport struct {
	Patient         models.Patient      `json:"patient"`
	ComputedStatus  ComputedStatus      `json:"computed_status"`
	DailyResponses  []models.DailyLog   `json:"daily_responses"`
	WeeklyResponses []models.WeeklyLog  `json:"weekly_responses"`
	PeriodWeeks     int                 `json:"period_weeks"`
	PeriodStartDate time.Time           `json:"period_start_date"`
	PeriodEndDate   time.Time           `json:"period_end_date"`
	DailyChartData  []DailyChartRow     `json:"daily_chart_data"`
	WeeklyChartData []WeeklyChartRow    `json:"weekly_chart_data"`
	Summary         ClinicReportSummary `json:"summary"`
}

// BuildClinicPatientReport is the clinician view of one patient over the
// given number of weeks.
func BuildClinicPatientReport(patient models.Patient, daily []models.DailyLog, weekly []models.WeeklyLog, now time.Time, weeks int) ClinicPatientReport {
	weeks = ClampDashboardWeeks(weeks)
	from := windowStart(now, weeks*7)

	periodDaily := dailyLogsBetween(daily, from, now)
	periodWeekly := weeklyLogsBetween(weekly, from, now)
	window := ComputeWindow(periodDaily, now, weeks*7)
	delta := weightDeltaBetween(periodWeekly, from, now)

	dailyRows := make([]DailyChartRow, 0, len(periodDaily))
	conditionTotal, conditionCount := 0, 0
	for _, entry := range periodDaily {
		dailyRows = append(dailyRows, DailyChartRow{
			Date:             entry.LoggedAt.UTC().Format(chartDateLayout),
			MedicationTaken:  entry.MedicationTaken,
			NauseaLevel:      entry.NauseaLevel,
			OverallCondition: entry.OverallCondition,
		})
		if entry.OverallCondition != nil {
			conditionTotal += *entry.OverallCondition
			conditionCount++
		}
	}

	weeklyRows := make([]WeeklyChartRow, 0, len(periodWeekly))
	for _, entry := range periodWeekly {
		weeklyRows = append(weeklyRows, WeeklyChartRow{
			Date:           entry.LoggedAt.UTC().Format(chartDateLayout),
			WeightKg:       entry.WeightKg,
			BodyFatPercent: entry.BodyFatPercent,
		})
	}

	avgCondition := 0.0
	if conditionCount > 0 {
		avgCondition = roundTo(float64(conditionTotal)/float64(conditionCount), 1)
	}

	return ClinicPatientReport{
		Patient:         patient,
		ComputedStatus:  ComputeStatus(daily, weekly, now),
		DailyResponses:  periodDaily,
		WeeklyResponses: periodWeekly,
		PeriodWeeks:     weeks,
		PeriodStartDate: from.UTC(),
		PeriodEndDate:   now.UTC(),
		DailyChartData:  dailyRows,
		WeeklyChartData: weeklyRows,
		Summary: ClinicReportSummary{
			TotalDailyResponses:  len(periodDaily),
			TotalWeeklyResponses: len(periodWeekly),
			AdherenceRate:        window.AdherenceRate,
			AvgNausea:            averageNausea(periodDaily),
			AvgCondition:         avgCondition,
			WeightChange:         delta.Change,
			WeightChangePercent:  delta.Percent,
		},
	}
}
