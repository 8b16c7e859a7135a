package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/glpcare/internal/db"
	"github.com/terraincognita07/glpcare/internal/logger"
	"github.com/terraincognita07/glpcare/internal/models"
	"github.com/terraincognita07/glpcare/internal/services"
	"gorm.io/gorm"
)

const (
	ImportKindDaily    = "daily"
	ImportKindWeekly   = "weekly"
	ImportKindPatients = "patients"
)

type ImportOptions struct {
	DBPath      string
	Kind        string
	File        string
	PatientCode string
	Location    *time.Location
}

// RowError reports a rejected row by its 1-based position in the file.
type RowError struct {
	Row int
	Err error
}

func (err RowError) Error() string {
	return fmt.Sprintf("row %d: %v", err.Row, err.Err)
}

type ImportResult struct {
	Imported int
	Rejected []RowError
}

// RunImportCommand loads a JSON array of exported rows, normalizes each one
// and stores the accepted rows. Rejected rows are reported, not fatal.
func RunImportCommand(options ImportOptions, out io.Writer) (ImportResult, error) {
	kind := strings.ToLower(strings.TrimSpace(options.Kind))
	switch kind {
	case ImportKindDaily, ImportKindWeekly, ImportKindPatients:
	default:
		return ImportResult{}, fmt.Errorf("unknown import kind %q", options.Kind)
	}
	if options.Location == nil {
		options.Location = time.UTC
	}

	rows, err := readImportRows(options.File)
	if err != nil {
		return ImportResult{}, err
	}

	database, err := db.OpenSQLite(options.DBPath)
	if err != nil {
		return ImportResult{}, fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	var result ImportResult
	switch kind {
	case ImportKindPatients:
		result, err = importPatients(repositories, rows)
	case ImportKindDaily:
		result, err = importDailyRows(repositories, rows, options)
	case ImportKindWeekly:
		result, err = importWeeklyRows(repositories, rows, options)
	}
	if err != nil {
		return result, err
	}

	for _, rejected := range result.Rejected {
		logger.Warn("import row rejected", "kind", kind, "row", rejected.Row, "err", rejected.Err)
	}
	logger.Info("import finished", "kind", kind, "imported", result.Imported, "rejected", len(result.Rejected))
	fmt.Fprintf(out, "Imported %d %s rows, rejected %d\n", result.Imported, kind, len(result.Rejected))
	return result, nil
}

func readImportRows(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.UseNumber()

	rows := make([]map[string]any, 0)
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	return rows, nil
}

// patientResolver caches code lookups for one import run.
type patientResolver struct {
	patients *db.PatientRepository
	byCode   map[string]uint
}

func newPatientResolver(patients *db.PatientRepository) *patientResolver {
	return &patientResolver{patients: patients, byCode: make(map[string]uint)}
}

func (resolver *patientResolver) resolve(code string) (uint, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, &services.FieldError{Field: "patient_code", Reason: "required"}
	}
	if id, ok := resolver.byCode[code]; ok {
		return id, nil
	}

	patient, err := resolver.patients.FindByPatientCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &services.FieldError{Field: "patient_code", Reason: "unknown patient " + code}
		}
		return 0, err
	}
	resolver.byCode[code] = patient.ID
	return patient.ID, nil
}

func rowPatientCode(rowCode string, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return rowCode
}

func importDailyRows(repositories *db.Repositories, rows []map[string]any, options ImportOptions) (ImportResult, error) {
	resolver := newPatientResolver(repositories.Patients)
	result := ImportResult{}
	entries := make([]models.DailyLog, 0, len(rows))

	for index, row := range rows {
		normalized, err := services.NormalizeDailyRow(row, options.Location)
		if err == nil {
			normalized.Log.PatientID, err = resolver.resolve(rowPatientCode(normalized.PatientCode, options.PatientCode))
		}
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Row: index + 1, Err: err})
			continue
		}
		entries = append(entries, normalized.Log)
	}

	if err := repositories.DailyLogs.CreateBatch(entries); err != nil {
		return result, fmt.Errorf("store daily rows: %w", err)
	}
	result.Imported = len(entries)
	return result, nil
}

func importWeeklyRows(repositories *db.Repositories, rows []map[string]any, options ImportOptions) (ImportResult, error) {
	resolver := newPatientResolver(repositories.Patients)
	result := ImportResult{}
	entries := make([]models.WeeklyLog, 0, len(rows))

	for index, row := range rows {
		normalized, err := services.NormalizeWeeklyRow(row, options.Location)
		if err == nil {
			normalized.Log.PatientID, err = resolver.resolve(rowPatientCode(normalized.PatientCode, options.PatientCode))
		}
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Row: index + 1, Err: err})
			continue
		}
		entries = append(entries, normalized.Log)
	}

	if err := repositories.WeeklyLogs.CreateBatch(entries); err != nil {
		return result, fmt.Errorf("store weekly rows: %w", err)
	}
	result.Imported = len(entries)
	return result, nil
}

// importPatients upserts roster rows by patient code, then by email.
func importPatients(repositories *db.Repositories, rows []map[string]any) (ImportResult, error) {
	result := ImportResult{}
	for index, row := range rows {
		incoming, err := services.NormalizePatientRow(row)
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Row: index + 1, Err: err})
			continue
		}

		existing, found, err := findExistingPatient(repositories.Patients, incoming)
		if err != nil {
			return result, err
		}
		if !found {
			if incoming.UserID == "" {
				incoming.UserID = uuid.NewString()
			}
			if err := repositories.Patients.Create(&incoming); err != nil {
				result.Rejected = append(result.Rejected, RowError{Row: index + 1, Err: err})
				continue
			}
			result.Imported++
			continue
		}

		mergePatient(&existing, incoming)
		if err := repositories.Patients.Save(&existing); err != nil {
			result.Rejected = append(result.Rejected, RowError{Row: index + 1, Err: err})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func findExistingPatient(patients *db.PatientRepository, incoming models.Patient) (models.Patient, bool, error) {
	lookups := make([]func() (models.Patient, error), 0, 2)
	if code := incoming.PatientCodeValue(); code != "" {
		lookups = append(lookups, func() (models.Patient, error) { return patients.FindByPatientCode(code) })
	}
	if email := incoming.EmailValue(); email != "" {
		lookups = append(lookups, func() (models.Patient, error) { return patients.FindByNormalizedEmail(email) })
	}

	for _, lookup := range lookups {
		patient, err := lookup()
		if err == nil {
			return patient, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Patient{}, false, fmt.Errorf("load existing patient: %w", err)
		}
	}
	return models.Patient{}, false, nil
}

// mergePatient copies roster fields onto a stored patient. Identity
// columns and blank roster values never overwrite stored data.
func mergePatient(existing *models.Patient, incoming models.Patient) {
	if incoming.ClinicID != "" {
		existing.ClinicID = incoming.ClinicID
	}
	if incoming.PatientCode != nil && existing.PatientCode == nil {
		existing.PatientCode = incoming.PatientCode
	}
	if incoming.Email != nil && existing.Email == nil {
		existing.Email = incoming.Email
	}
	if incoming.DisplayName != "" {
		existing.DisplayName = incoming.DisplayName
	}
	existing.Status = incoming.Status
	existing.WeeklyDay = incoming.WeeklyDay
	existing.Consent = incoming.Consent
	for key, value := range incoming.Attributes {
		if existing.Attributes == nil {
			existing.Attributes = make(map[string]any)
		}
		existing.Attributes[key] = value
	}
}
