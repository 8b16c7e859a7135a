package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/glpcare/internal/models"
)

const (
	ShareMinutesShort    = 10
	ShareMinutesLong     = 1440
	MaxListedShareTokens = 20
	SharedReportDays     = ReportPeriodShort
)

var (
	ErrShareTokenNotFound  = errors.New("share token not found")
	ErrShareTokenRevoked   = errors.New("share token revoked")
	ErrShareTokenExpired   = errors.New("share token expired")
	ErrShareTokenForbidden = errors.New("share token belongs to another patient")
)

type ShareTokenStore interface {
	Create(token *models.ShareToken) error
	FindByToken(value string) (models.ShareToken, error)
	ListByPatient(patientID uint, limit int) ([]models.ShareToken, error)
	Revoke(tokenID uint, at time.Time) error
}

type SharePatientReader interface {
	FindByID(patientID uint) (models.Patient, error)
}

type ShareReportBuilder interface {
	Report(patient models.Patient, periodDays int, now time.Time) (PatientReport, error)
}

type SharedReport struct {
	Report    PatientReport `json:"report"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type ShareService struct {
	tokens   ShareTokenStore
	patients SharePatientReader
	reports  ShareReportBuilder
}

func NewShareService(tokens ShareTokenStore, patients SharePatientReader, reports ShareReportBuilder) *ShareService {
	return &ShareService{tokens: tokens, patients: patients, reports: reports}
}

// NormalizeShareMinutes only honours the 24h option; anything else is the
// short 10 minute link.
func NormalizeShareMinutes(minutes int) int {
	if minutes == ShareMinutesLong {
		return ShareMinutesLong
	}
	return ShareMinutesShort
}

func newShareTokenValue() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (service *ShareService) Create(patientID uint, minutes int, now time.Time) (models.ShareToken, error) {
	token := models.ShareToken{
		Token:     newShareTokenValue(),
		PatientID: patientID,
		ExpiresAt: now.UTC().Add(time.Duration(NormalizeShareMinutes(minutes)) * time.Minute),
	}
	if err := service.tokens.Create(&token); err != nil {
		return models.ShareToken{}, fmt.Errorf("create share token: %w", err)
	}
	return token, nil
}

func (service *ShareService) List(patientID uint) ([]models.ShareToken, error) {
	tokens, err := service.tokens.ListByPatient(patientID, MaxListedShareTokens)
	if err != nil {
		return nil, fmt.Errorf("list share tokens: %w", err)
	}
	return tokens, nil
}

func (service *ShareService) find(value string) (models.ShareToken, error) {
	token, err := service.tokens.FindByToken(strings.TrimSpace(value))
	if err != nil {
		if isRecordNotFound(err) {
			return models.ShareToken{}, ErrShareTokenNotFound
		}
		return models.ShareToken{}, fmt.Errorf("load share token: %w", err)
	}
	return token, nil
}

// Open resolves a public share link to the fixed 14 day report.
func (service *ShareService) Open(value string, now time.Time) (SharedReport, error) {
	token, err := service.find(value)
	if err != nil {
		return SharedReport{}, err
	}
	if token.RevokedAt != nil {
		return SharedReport{}, ErrShareTokenRevoked
	}
	if token.Expired(now) {
		return SharedReport{}, ErrShareTokenExpired
	}

	patient, err := service.patients.FindByID(token.PatientID)
	if err != nil {
		if isRecordNotFound(err) {
			return SharedReport{}, ErrShareTokenNotFound
		}
		return SharedReport{}, fmt.Errorf("load shared patient: %w", err)
	}
	report, err := service.reports.Report(patient, SharedReportDays, now)
	if err != nil {
		return SharedReport{}, err
	}
	return SharedReport{Report: report, ExpiresAt: token.ExpiresAt}, nil
}

func (service *ShareService) Revoke(patientID uint, value string, now time.Time) error {
	token, err := service.find(value)
	if err != nil {
		return err
	}
	if token.PatientID != patientID {
		return ErrShareTokenForbidden
	}
	if err := service.tokens.Revoke(token.ID, now); err != nil {
		return fmt.Errorf("revoke share token: %w", err)
	}
	return nil
}
