package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
)

func seedClinic(t *testing.T, env *testApp) {
	t.Helper()

	stable := env.createPatient(t, "", testClinicID, "C001-0001")
	sick := env.createPatient(t, "", "", "C001-0002")
	env.createPatient(t, "", "C002", "C002-0003")

	now := time.Now().UTC()
	entries := make([]models.DailyLog, 0, 8)
	for day := 0; day < 7; day++ {
		entries = append(entries, models.DailyLog{PatientID: stable.ID, LoggedAt: now.Add(-time.Duration(day)*24*time.Hour - time.Hour), MedicationTaken: true, NauseaLevel: 1})
	}
	entries = append(entries, models.DailyLog{PatientID: sick.ID, LoggedAt: now.Add(-2 * time.Hour), MedicationTaken: true, Vomiting: true})
	if err := env.repos.DailyLogs.CreateBatch(entries); err != nil {
		t.Fatalf("seed daily logs: %v", err)
	}
	if err := env.repos.WeeklyLogs.CreateBatch([]models.WeeklyLog{
		{PatientID: stable.ID, LoggedAt: now.Add(-13 * 24 * time.Hour), WeightKg: 100, AppetiteChange: models.AppetiteMaintained, ExerciseFrequency: models.ExerciseNone},
		{PatientID: stable.ID, LoggedAt: now.Add(-time.Hour), WeightKg: 97.5, AppetiteChange: models.AppetiteMaintained, ExerciseFrequency: models.ExerciseNone},
	}); err != nil {
		t.Fatalf("seed weekly logs: %v", err)
	}
}

func TestClinicRoutesRequireToken(t *testing.T) {
	env := newTestApp(t)

	response, payload := env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/dashboard"})
	expectStatus(t, response, payload, http.StatusUnauthorized)

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/dashboard?token=wrong"})
	expectStatus(t, response, payload, http.StatusUnauthorized)

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C002/dashboard?token=" + testClinicToken})
	expectStatus(t, response, payload, http.StatusUnauthorized)
}

func TestClinicTokenSources(t *testing.T) {
	env := newTestApp(t)

	requests := []testRequest{
		{method: http.MethodGet, path: "/api/clinics/C001/patients", headers: map[string]string{clinicTokenHeader: testClinicToken}},
		{method: http.MethodGet, path: "/api/clinics/C001/patients", headers: map[string]string{"Authorization": "Bearer " + testClinicToken}},
		{method: http.MethodGet, path: "/api/clinics/C001/patients?token=" + testClinicToken},
	}
	for _, request := range requests {
		response, payload := env.do(t, request)
		expectStatus(t, response, payload, http.StatusOK)
	}
}

func TestClinicDashboard(t *testing.T) {
	env := newTestApp(t)
	seedClinic(t, env)
	auth := map[string]string{clinicTokenHeader: testClinicToken}

	response, payload := env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/dashboard", headers: auth})
	expectStatus(t, response, payload, http.StatusOK)
	if payload["total"] != float64(2) || payload["weeks"] != float64(4) {
		t.Fatalf("unexpected dashboard payload: %v", payload)
	}
	summary, _ := payload["summary"].(map[string]any)
	if summary["red"] != float64(1) || summary["green"] != float64(1) || summary["active"] != float64(2) {
		t.Fatalf("unexpected dashboard summary: %v", summary)
	}

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/dashboard?color=red", headers: auth})
	expectStatus(t, response, payload, http.StatusOK)
	patients, _ := payload["patients"].([]any)
	if len(patients) != 1 {
		t.Fatalf("expected one red patient, got %v", payload)
	}
	first, _ := patients[0].(map[string]any)
	if first["patient_code"] != "C001-0002" {
		t.Fatalf("expected C001-0002, got %v", first)
	}

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/dashboard?status=archived", headers: auth})
	expectStatus(t, response, payload, http.StatusBadRequest)
}

func TestClinicPatientReport(t *testing.T) {
	env := newTestApp(t)
	seedClinic(t, env)
	auth := map[string]string{clinicTokenHeader: testClinicToken}

	response, payload := env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/patients/C001-0001/report?weeks=2", headers: auth})
	expectStatus(t, response, payload, http.StatusOK)
	summary, _ := payload["summary"].(map[string]any)
	if summary["total_daily_responses"] != float64(7) || summary["weight_change"] != -2.5 {
		t.Fatalf("unexpected report summary: %v", summary)
	}

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/patients/C002-0003/report", headers: auth})
	expectStatus(t, response, payload, http.StatusForbidden)

	response, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/clinics/C001/patients/C001-9999/report", headers: auth})
	expectStatus(t, response, payload, http.StatusNotFound)
}
