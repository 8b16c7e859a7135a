package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/glpcare/internal/db"
	"github.com/terraincognita07/glpcare/internal/models"
	"gorm.io/gorm"
)

const (
	testSecretKey   = "0123456789abcdef0123456789abcdef"
	testClinicID    = "C001"
	testClinicToken = "clinic-secret-token"
)

type testApp struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	repos    *db.Repositories
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "glpcare-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, Config{
		SecretKey:    testSecretKey,
		ClinicTokens: map[string]string{testClinicID: testClinicToken},
		BaseURL:      "http://localhost:8080/",
		DevMode:      true,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, handler: handler, database: database, repos: db.NewRepositories(database)}
}

func (env *testApp) createPatient(t *testing.T, email string, clinicID string, code string) models.Patient {
	t.Helper()

	patient := models.Patient{
		UserID:    "user-" + email + code,
		ClinicID:  clinicID,
		Status:    models.PatientStatusActive,
		WeeklyDay: models.DefaultWeeklyDay,
		Consent:   true,
	}
	if email != "" {
		patient.Email = &email
	}
	if code != "" {
		patient.PatientCode = &code
	}
	if err := env.repos.Patients.Create(&patient); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func (env *testApp) sessionCookie(t *testing.T, patient models.Patient) string {
	t.Helper()

	token, err := env.handler.buildSessionToken(&patient, time.Hour)
	if err != nil {
		t.Fatalf("build session token: %v", err)
	}
	return sessionCookieName + "=" + token
}

type testRequest struct {
	method  string
	path    string
	body    any
	cookie  string
	headers map[string]string
}

func (env *testApp) do(t *testing.T, request testRequest) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if request.body != nil {
		encoded, err := json.Marshal(request.body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	httpRequest := httptest.NewRequest(request.method, request.path, reader)
	if request.body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	if request.cookie != "" {
		httpRequest.Header.Set("Cookie", request.cookie)
	}
	for key, value := range request.headers {
		httpRequest.Header.Set(key, value)
	}

	response, err := env.app.Test(httpRequest, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.method, request.path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	payload := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode response body %q: %v", string(raw), err)
		}
	}
	return response, payload
}

func expectStatus(t *testing.T, response *http.Response, payload map[string]any, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		t.Fatalf("expected status %d, got %d (body %v)", expected, response.StatusCode, payload)
	}
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
