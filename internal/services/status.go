package services

import (
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

type SignalColor string

const (
	SignalRed    SignalColor = "red"
	SignalYellow SignalColor = "yellow"
	SignalGreen  SignalColor = "green"
)

const (
	TriageWindowDays      = 7
	WeightContextWeeks    = 4
	SevereNauseaThreshold = 8
	ModerateNauseaLevel   = 5
	ModerateNauseaMinDays = 2
	MultipleMissedDoseMin = 2
)

const (
	ReasonNoRecentData       = "no data in the last 7 days"
	ReasonVomiting           = "vomiting occurred"
	ReasonSevereNausea       = "severe nausea (≥8/10)"
	ReasonMultipleMissed     = "multiple missed doses"
	ReasonModerateNauseaDays = "moderate nausea on 2 or more days"
	ReasonModerateNausea     = "moderate nausea (≥5/10)"
	ReasonOneMissedDose      = "one missed dose"
	ReasonCaution            = "caution"
	ReasonStable             = "stable"
)

// WindowStats summarizes the daily logs that fall inside one trailing window.
type WindowStats struct {
	Filtered      []models.DailyLog `json:"-"`
	Total         int               `json:"total"`
	Taken         int               `json:"taken"`
	AdherenceRate int               `json:"adherence_rate"`
	Missed        int               `json:"missed_medication_count"`
	MaxNausea     int               `json:"max_nausea"`
	VomitingCount int               `json:"vomiting_count"`
}

type Signal struct {
	Color   SignalColor `json:"signal_color"`
	Reasons []string    `json:"signal_reasons"`
}

// WeightDelta is nil-valued when the window holds fewer than two weekly
// entries, which keeps "no data" apart from "no change".
type WeightDelta struct {
	Change  *float64 `json:"weight_change,omitempty"`
	Percent *float64 `json:"weight_change_percent,omitempty"`
	Entries int      `json:"entries"`
}

type ComputedStatus struct {
	SignalColor           SignalColor `json:"signal_color"`
	SignalReasons         []string    `json:"signal_reasons"`
	AdherenceRate         int         `json:"adherence_rate"`
	MaxNausea             int         `json:"max_nausea"`
	VomitingCount         int         `json:"vomiting_count"`
	MissedMedicationCount int         `json:"missed_medication_count"`
	DaysSinceLastDaily    *int        `json:"days_since_last_daily,omitempty"`
	DaysSinceLastWeekly   *int        `json:"days_since_last_weekly,omitempty"`
	WeightChange          *float64    `json:"weight_change,omitempty"`
	WeightChangePercent   *float64    `json:"weight_change_percent,omitempty"`
}

func windowStart(now time.Time, windowDays int) time.Time {
	return now.Add(-time.Duration(windowDays) * 24 * time.Hour)
}

func inWindow(timestamp time.Time, from time.Time, now time.Time) bool {
	return !timestamp.Before(from) && !timestamp.After(now)
}

func ComputeWindow(logs []models.DailyLog, now time.Time, windowDays int) WindowStats {
	from := windowStart(now, windowDays)

	stats := WindowStats{Filtered: make([]models.DailyLog, 0, len(logs))}
	for _, entry := range logs {
		if !inWindow(entry.LoggedAt, from, now) {
			continue
		}
		stats.Filtered = append(stats.Filtered, entry)
		stats.Total++
		if entry.MedicationTaken {
			stats.Taken++
		}
		if entry.NauseaLevel > stats.MaxNausea {
			stats.MaxNausea = entry.NauseaLevel
		}
		if entry.Vomiting {
			stats.VomitingCount++
		}
	}

	stats.Missed = stats.Total - stats.Taken
	stats.AdherenceRate = adherenceRate(stats.Taken, stats.Total)
	return stats
}

func adherenceRate(taken int, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(taken) / float64(total)))
}

// ClassifySignal expects logs already limited to the triage window.
// Calendar days are counted in time.Local, which the server sets from TZ.
func ClassifySignal(filtered []models.DailyLog) Signal {
	return ClassifySignalIn(filtered, time.Local)
}

// ClassifySignalIn is ClassifySignal with calendar days taken in location.
func ClassifySignalIn(filtered []models.DailyLog, location *time.Location) Signal {
	if location == nil {
		location = time.UTC
	}
	if len(filtered) == 0 {
		return Signal{Color: SignalYellow, Reasons: []string{ReasonNoRecentData}}
	}

	maxNausea := 0
	vomiting := false
	missed := 0
	moderateDays := make(map[string]struct{})
	for _, entry := range filtered {
		if entry.NauseaLevel > maxNausea {
			maxNausea = entry.NauseaLevel
		}
		if entry.Vomiting {
			vomiting = true
		}
		if !entry.MedicationTaken {
			missed++
		}
		if entry.NauseaLevel >= ModerateNauseaLevel {
			moderateDays[entry.LoggedAt.In(location).Format("2006-01-02")] = struct{}{}
		}
	}

	reasons := make([]string, 0, 3)
	if vomiting {
		reasons = append(reasons, ReasonVomiting)
	}
	if maxNausea >= SevereNauseaThreshold {
		reasons = append(reasons, ReasonSevereNausea)
	}
	if missed >= MultipleMissedDoseMin {
		reasons = append(reasons, ReasonMultipleMissed)
	}
	if len(reasons) > 0 {
		return Signal{Color: SignalRed, Reasons: reasons}
	}

	moderateOnSeveralDays := len(moderateDays) >= ModerateNauseaMinDays
	moderateOnce := maxNausea >= ModerateNauseaLevel
	if moderateOnSeveralDays || moderateOnce || missed == 1 {
		switch {
		case moderateOnSeveralDays:
			reasons = append(reasons, ReasonModerateNauseaDays)
		case moderateOnce:
			reasons = append(reasons, ReasonModerateNausea)
		}
		if missed == 1 {
			reasons = append(reasons, ReasonOneMissedDose)
		}
		if len(reasons) == 0 {
			reasons = append(reasons, ReasonCaution)
		}
		return Signal{Color: SignalYellow, Reasons: reasons}
	}

	return Signal{Color: SignalGreen, Reasons: []string{ReasonStable}}
}

func ComputeWeeklyDelta(logs []models.WeeklyLog, now time.Time, windowWeeks int) WeightDelta {
	return weightDeltaBetween(logs, windowStart(now, windowWeeks*7), now)
}

func weightDeltaBetween(logs []models.WeeklyLog, from time.Time, now time.Time) WeightDelta {
	inRange := weeklyLogsBetween(logs, from, now)

	delta := WeightDelta{Entries: len(inRange)}
	if len(inRange) < 2 {
		return delta
	}

	earliest := inRange[0].WeightKg
	latest := inRange[len(inRange)-1].WeightKg

	change := latest - earliest
	delta.Change = &change
	if earliest > 0 {
		percent := roundTo((latest-earliest)/earliest*100, 1)
		delta.Percent = &percent
	}
	return delta
}

// weeklyLogsBetween returns the in-range entries sorted oldest first.
func weeklyLogsBetween(logs []models.WeeklyLog, from time.Time, now time.Time) []models.WeeklyLog {
	inRange := make([]models.WeeklyLog, 0, len(logs))
	for _, entry := range logs {
		if inWindow(entry.LoggedAt, from, now) {
			inRange = append(inRange, entry)
		}
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].LoggedAt.Before(inRange[j].LoggedAt)
	})
	return inRange
}

// dailyLogsBetween returns the in-range entries sorted oldest first.
func dailyLogsBetween(logs []models.DailyLog, from time.Time, now time.Time) []models.DailyLog {
	inRange := make([]models.DailyLog, 0, len(logs))
	for _, entry := range logs {
		if inWindow(entry.LoggedAt, from, now) {
			inRange = append(inRange, entry)
		}
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].LoggedAt.Before(inRange[j].LoggedAt)
	})
	return inRange
}

// ComputeStatus takes every log the caller has for the patient; windowing
// happens here against now.
func ComputeStatus(daily []models.DailyLog, weekly []models.WeeklyLog, now time.Time) ComputedStatus {
	window := ComputeWindow(daily, now, TriageWindowDays)
	signal := ClassifySignal(window.Filtered)
	delta := ComputeWeeklyDelta(weekly, now, WeightContextWeeks)

	status := ComputedStatus{
		SignalColor:           signal.Color,
		SignalReasons:         signal.Reasons,
		AdherenceRate:         window.AdherenceRate,
		MaxNausea:             window.MaxNausea,
		VomitingCount:         window.VomitingCount,
		MissedMedicationCount: window.Missed,
		WeightChange:          delta.Change,
		WeightChangePercent:   delta.Percent,
	}

	dailyTimes := make([]time.Time, 0, len(daily))
	for _, entry := range daily {
		dailyTimes = append(dailyTimes, entry.LoggedAt)
	}
	status.DaysSinceLastDaily = daysSinceLatest(dailyTimes, now)

	weeklyTimes := make([]time.Time, 0, len(weekly))
	for _, entry := range weekly {
		weeklyTimes = append(weeklyTimes, entry.LoggedAt)
	}
	status.DaysSinceLastWeekly = daysSinceLatest(weeklyTimes, now)

	return status
}

// daysSinceLatest floors the distance from the newest non-future timestamp
// to now in whole days.
func daysSinceLatest(timestamps []time.Time, now time.Time) *int {
	var latest time.Time
	found := false
	for _, timestamp := range timestamps {
		if timestamp.After(now) {
			continue
		}
		if !found || timestamp.After(latest) {
			latest = timestamp
			found = true
		}
	}
	if !found {
		return nil
	}
	days := int(now.Sub(latest) / (24 * time.Hour))
	return &days
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}
