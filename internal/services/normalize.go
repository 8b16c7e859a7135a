package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

// FieldError reports the row field that could not be normalized.
type FieldError struct {
	Field  string
	Reason string
}

func (err *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", err.Field, err.Reason)
}

var (
	timestampFields   = []string{"timestamp", "Timestamp", "createdTime", "created_at"}
	patientCodeFields = []string{"patient_code", "환자코드"}

	medicationFields  = []string{"medication_taken", "오늘 투약했나요?"}
	nauseaFields      = []string{"nausea_level", "오심 정도 (0-10)"}
	vomitingFields    = []string{"vomiting", "구토 여부"}
	dizzinessFields   = []string{"dizziness", "어지럼증 여부"}
	abdominalFields   = []string{"abdominal_discomfort", "복부 불편감"}
	conditionFields   = []string{"overall_condition", "오늘 전반적 컨디션 (0-10)"}
	dailyWeightFields = []string{"weight_kg"}

	weeklyWeightFields = []string{"weight_kg", "체중(kg)"}
	bodyFatFields      = []string{"body_fat_percent", "체지방률(%)"}
	appetiteFields     = []string{"appetite_change", "식욕/포만감 변화"}
	mealAmountFields   = []string{"meal_amount_change", "식사량 변화"}
	exerciseFields     = []string{"exercise_frequency", "운동 빈도"}

	statusFields    = []string{"status", "Status", "Select", "select", "STATUS", "상태", "patient_status"}
	clinicFields    = []string{"clinic_id", "clinic"}
	nameFields      = []string{"name_or_initial", "이름 또는 이니셜"}
	emailFields     = []string{"email", "이메일"}
	weeklyDayFields = []string{"weekly_day", "주간 설문 발송 요일"}
	consentFields   = []string{"consent", "설문 수신 동의"}
	userIDFields    = []string{"user_id", "patient_id"}
)

var trueWords = map[string]struct{}{
	"true": {}, "yes": {}, "y": {}, "1": {}, "o": {}, "예": {}, "네": {},
}

var statusWords = map[string]string{
	"active":     models.PatientStatusActive,
	"paused":     models.PatientStatusPaused,
	"discharged": models.PatientStatusDischarged,

	"활성": models.PatientStatusActive,
	"중단": models.PatientStatusPaused,
	"종료": models.PatientStatusDischarged,
}

var weekdayWords = map[string]string{
	"MON": "MON", "TUE": "TUE", "WED": "WED", "THU": "THU", "FRI": "FRI", "SAT": "SAT", "SUN": "SUN",
	"월": "MON", "화": "TUE", "수": "WED", "목": "THU", "금": "FRI", "토": "SAT", "일": "SUN",
}

var appetiteWords = map[string]string{
	"decreased":  models.AppetiteDecreased,
	"maintained": models.AppetiteMaintained,
	"increased":  models.AppetiteIncreased,

	"감소": models.AppetiteDecreased,
	"유지": models.AppetiteMaintained,
	"증가": models.AppetiteIncreased,
}

var exerciseWords = map[string]string{
	"none": models.ExerciseNone,
	"1x":   models.ExerciseOnce,
	"2-3x": models.ExerciseTwoToThree,
	"4x+":  models.ExerciseFourPlus,

	"없음":    models.ExerciseNone,
	"주1회":   models.ExerciseOnce,
	"주2-3회": models.ExerciseTwoToThree,
	"주4회이상": models.ExerciseFourPlus,
}

var rowTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

type DailyRow struct {
	PatientCode string
	Log         models.DailyLog
}

type WeeklyRow struct {
	PatientCode string
	Log         models.WeeklyLog
}

func NormalizeDailyRow(row map[string]any, location *time.Location) (DailyRow, error) {
	loggedAt, err := rowTimestamp(row, location)
	if err != nil {
		return DailyRow{}, err
	}

	entry := models.DailyLog{
		LoggedAt:            loggedAt,
		MedicationTaken:     ParseRowBool(pick(row, medicationFields)),
		NauseaLevel:         ClampNausea(ParseRowNumber(pick(row, nauseaFields), 0)),
		Vomiting:            ParseRowBool(pick(row, vomitingFields)),
		Dizziness:           ParseRowBool(pick(row, dizzinessFields)),
		AbdominalDiscomfort: ParseRowBool(pick(row, abdominalFields)),
	}
	if weight, ok := parseOptionalNumber(pick(row, dailyWeightFields)); ok && weight > 0 {
		entry.WeightKg = &weight
	}
	if condition, ok := parseOptionalNumber(pick(row, conditionFields)); ok {
		value := ClampNausea(condition)
		entry.OverallCondition = &value
	}

	return DailyRow{PatientCode: rowString(pick(row, patientCodeFields)), Log: entry}, nil
}

func NormalizeWeeklyRow(row map[string]any, location *time.Location) (WeeklyRow, error) {
	loggedAt, err := rowTimestamp(row, location)
	if err != nil {
		return WeeklyRow{}, err
	}

	weight, ok := parseOptionalNumber(pick(row, weeklyWeightFields))
	if !ok {
		return WeeklyRow{}, &FieldError{Field: "weight_kg", Reason: "required"}
	}
	if weight < models.MinWeeklyWeightKg || weight > models.MaxWeeklyWeightKg {
		return WeeklyRow{}, &FieldError{Field: "weight_kg", Reason: "out of range 20-400"}
	}

	entry := models.WeeklyLog{
		LoggedAt:          loggedAt,
		WeightKg:          weight,
		AppetiteChange:    NormalizeAppetite(rowString(pick(row, appetiteFields))),
		MealAmountChange:  rowString(pick(row, mealAmountFields)),
		ExerciseFrequency: NormalizeExercise(rowString(pick(row, exerciseFields))),
	}
	if bodyFat, ok := parseOptionalNumber(pick(row, bodyFatFields)); ok {
		entry.BodyFatPercent = &bodyFat
	}

	return WeeklyRow{PatientCode: rowString(pick(row, patientCodeFields)), Log: entry}, nil
}

// NormalizePatientRow maps a clinic roster row. Columns without a typed
// field are kept in Attributes.
func NormalizePatientRow(row map[string]any) (models.Patient, error) {
	code := rowString(pick(row, patientCodeFields))
	email := NormalizeAuthEmail(rowString(pick(row, emailFields)))
	if code == "" && email == "" {
		return models.Patient{}, &FieldError{Field: "patient_code", Reason: "patient_code or email required"}
	}

	patient := models.Patient{
		UserID:      rowString(pick(row, userIDFields)),
		ClinicID:    rowString(pick(row, clinicFields)),
		DisplayName: rowString(pick(row, nameFields)),
		Status:      NormalizePatientStatus(pick(row, statusFields)),
		WeeklyDay:   NormalizeWeeklyDay(rowString(pick(row, weeklyDayFields))),
		Consent:     ParseRowBool(pick(row, consentFields)),
	}
	if patient.Status == "" {
		patient.Status = models.PatientStatusActive
	}
	if code != "" {
		patient.PatientCode = &code
	}
	if email != "" {
		patient.Email = &email
	}

	known := make(map[string]struct{})
	for _, fields := range [][]string{
		patientCodeFields, emailFields, userIDFields, clinicFields, nameFields,
		statusFields, weeklyDayFields, consentFields, {"id"},
	} {
		for _, field := range fields {
			known[field] = struct{}{}
		}
	}
	for key, value := range row {
		if _, ok := known[key]; ok {
			continue
		}
		if patient.Attributes == nil {
			patient.Attributes = make(map[string]any)
		}
		patient.Attributes[key] = value
	}

	return patient, nil
}

// NormalizePatientStatus returns "" for values it does not recognize so
// callers can tell a filter miss from a default.
func NormalizePatientStatus(raw any) string {
	value := rowString(raw)
	if status, ok := statusWords[strings.ToLower(value)]; ok {
		return status
	}
	return ""
}

func NormalizeWeeklyDay(raw string) string {
	if day, ok := weekdayWords[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return day
	}
	return models.DefaultWeeklyDay
}

func NormalizeAppetite(raw string) string {
	if value, ok := appetiteWords[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return value
	}
	return models.AppetiteMaintained
}

func NormalizeExercise(raw string) string {
	compact := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if value, ok := exerciseWords[compact]; ok {
		return value
	}
	return models.ExerciseNone
}

// ClampNausea bounds the float before rounding so out-of-range magnitudes
// never reach the int conversion.
func ClampNausea(value float64) int {
	if math.IsNaN(value) || value <= models.MinNauseaLevel {
		return models.MinNauseaLevel
	}
	if value >= models.MaxNauseaLevel {
		return models.MaxNauseaLevel
	}
	return int(math.Round(value))
}

func ParseRowBool(raw any) bool {
	switch value := raw.(type) {
	case nil:
		return false
	case bool:
		return value
	default:
		_, ok := trueWords[strings.ToLower(rowString(value))]
		return ok
	}
}

// ParseRowNumber returns fallback for missing, malformed or non-finite values.
func ParseRowNumber(raw any, fallback float64) float64 {
	if value, ok := parseOptionalNumber(raw); ok {
		return value
	}
	return fallback
}

func parseOptionalNumber(raw any) (float64, bool) {
	var value float64
	switch typed := raw.(type) {
	case nil:
		return 0, false
	case float64:
		value = typed
	case float32:
		value = float64(typed)
	case int:
		value = float64(typed)
	case int64:
		value = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		value = parsed
	default:
		text := strings.TrimSpace(rowString(typed))
		text = strings.TrimSuffix(strings.TrimSuffix(text, "kg"), "%")
		text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
		if text == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func rowTimestamp(row map[string]any, location *time.Location) (time.Time, error) {
	raw := pick(row, timestampFields)
	if raw == nil {
		return time.Time{}, &FieldError{Field: "timestamp", Reason: "required"}
	}
	if value, ok := raw.(time.Time); ok {
		return value.UTC(), nil
	}

	text := rowString(raw)
	if text == "" {
		return time.Time{}, &FieldError{Field: "timestamp", Reason: "required"}
	}
	if location == nil {
		location = time.UTC
	}
	for _, layout := range rowTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, text, location); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, &FieldError{Field: "timestamp", Reason: fmt.Sprintf("unparseable value %q", text)}
}

func pick(row map[string]any, fields []string) any {
	for _, field := range fields {
		if value, ok := row[field]; ok && value != nil {
			if text, isText := value.(string); isText && strings.TrimSpace(text) == "" {
				continue
			}
			return value
		}
	}
	return nil
}

func rowString(raw any) string {
	switch value := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case []any:
		if len(value) == 0 {
			return ""
		}
		return rowString(value[0])
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}
