package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/glpcare/internal/db"
	"github.com/terraincognita07/glpcare/internal/services"
	"gorm.io/gorm"
)

type statusOutput struct {
	PatientCode    string                  `json:"patient_code"`
	ClinicID       string                  `json:"clinic_id,omitempty"`
	Status         string                  `json:"status"`
	ComputedStatus services.ComputedStatus `json:"computed_status"`
}

// RunStatusCommand prints the computed status of one patient as JSON.
func RunStatusCommand(dbPath string, patientCode string, now time.Time, out io.Writer) error {
	code := strings.TrimSpace(patientCode)
	if code == "" {
		return errors.New("patient code is required")
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	patient, err := repositories.Patients.FindByPatientCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("patient %s not found", code)
		}
		return fmt.Errorf("load patient: %w", err)
	}

	logs := services.NewLogService(repositories.DailyLogs, repositories.WeeklyLogs)
	status, err := logs.Status(patient.ID, now)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(statusOutput{
		PatientCode:    patient.PatientCodeValue(),
		ClinicID:       patient.ClinicID,
		Status:         patient.Status,
		ComputedStatus: status,
	})
}
