package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/glpcare/internal/models"
	"github.com/terraincognita07/glpcare/internal/security"
	"gorm.io/gorm"
)

const LoginCodeTTL = 10 * time.Minute

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrLoginCodeNotFound = errors.New("login code not found")
	ErrLoginCodeExpired  = errors.New("login code expired")
	ErrLoginCodeMismatch = errors.New("login code mismatch")
	ErrLoginCodeLocked   = errors.New("login code attempts exhausted")
	ErrLoginTokenUsed    = errors.New("login token already used")
	ErrLoginTokenRevoked = errors.New("login token revoked")
)

type AuthPatientRepository interface {
	FindByID(patientID uint) (models.Patient, error)
	FindByUserID(userID string) (models.Patient, error)
	FindByNormalizedEmail(email string) (models.Patient, error)
	Create(patient *models.Patient) error
}

type AuthLoginCodeRepository interface {
	CreateRevokingPrevious(code *models.LoginCode, now time.Time) error
	FindLatestUsableByPatient(patientID uint) (models.LoginCode, bool, error)
	FindByToken(token string) (models.LoginCode, error)
	IncrementAttempts(codeID uint) error
	MarkUsed(codeID uint, at time.Time) error
}

// LoginCodeSender delivers a fresh code and magic link to the patient.
type LoginCodeSender interface {
	SendLoginCode(email string, code string, link string) error
}

type LoginChallenge struct {
	PatientID uint
	Email     string
	Token     string
	Code      string
	Link      string
	ExpiresAt time.Time
}

type AuthService struct {
	patients AuthPatientRepository
	codes    AuthLoginCodeRepository
	sender   LoginCodeSender
	baseURL  string
}

func NewAuthService(patients AuthPatientRepository, codes AuthLoginCodeRepository, sender LoginCodeSender, baseURL string) *AuthService {
	return &AuthService{
		patients: patients,
		codes:    codes,
		sender:   sender,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (service *AuthService) FindPatientByUserID(userID string) (models.Patient, error) {
	patient, err := service.patients.FindByUserID(userID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Patient{}, ErrPatientNotFound
		}
		return models.Patient{}, fmt.Errorf("load patient by user id: %w", err)
	}
	return patient, nil
}

func (service *AuthService) UpsertPatientByEmail(email string) (models.Patient, error) {
	patient, err := service.patients.FindByNormalizedEmail(email)
	if err == nil {
		return patient, nil
	}
	if !isRecordNotFound(err) {
		return models.Patient{}, fmt.Errorf("load patient by email: %w", err)
	}

	stored := email
	patient = models.Patient{
		UserID:    uuid.NewString(),
		Email:     &stored,
		Status:    models.PatientStatusActive,
		WeeklyDay: models.DefaultWeeklyDay,
		Consent:   true,
	}
	if err := service.patients.Create(&patient); err != nil {
		return models.Patient{}, fmt.Errorf("create patient: %w", err)
	}
	return patient, nil
}

// RequestLoginCode issues a new code for the email, creating the patient on
// first use. Earlier unused codes stop being redeemable.
func (service *AuthService) RequestLoginCode(emailRaw string, now time.Time) (LoginChallenge, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return LoginChallenge{}, ErrAuthEmailInvalid
	}

	patient, err := service.UpsertPatientByEmail(email)
	if err != nil {
		return LoginChallenge{}, err
	}

	token, err := security.NewLoginToken()
	if err != nil {
		return LoginChallenge{}, fmt.Errorf("generate login token: %w", err)
	}
	code, err := security.NewLoginCode()
	if err != nil {
		return LoginChallenge{}, fmt.Errorf("generate login code: %w", err)
	}
	codeHash, err := security.HashLoginCode(code)
	if err != nil {
		return LoginChallenge{}, fmt.Errorf("hash login code: %w", err)
	}

	record := models.LoginCode{
		Token:     token,
		CodeHash:  codeHash,
		PatientID: patient.ID,
		ExpiresAt: now.UTC().Add(LoginCodeTTL),
	}
	if err := service.codes.CreateRevokingPrevious(&record, now); err != nil {
		return LoginChallenge{}, fmt.Errorf("store login code: %w", err)
	}

	challenge := LoginChallenge{
		PatientID: patient.ID,
		Email:     email,
		Token:     token,
		Code:      code,
		Link:      service.magicLink(token),
		ExpiresAt: record.ExpiresAt,
	}
	if service.sender != nil {
		if err := service.sender.SendLoginCode(email, code, challenge.Link); err != nil {
			return LoginChallenge{}, fmt.Errorf("send login code: %w", err)
		}
	}
	return challenge, nil
}

func (service *AuthService) magicLink(token string) string {
	return service.baseURL + "/api/auth/verify?token=" + url.QueryEscape(token)
}

// VerifyLoginCode checks the code against the newest usable challenge. Each
// mismatch counts toward models.MaxLoginCodeAttempts.
func (service *AuthService) VerifyLoginCode(emailRaw string, codeRaw string, now time.Time) (models.Patient, error) {
	email, code, err := NormalizeLoginCodeInput(emailRaw, codeRaw)
	if err != nil {
		return models.Patient{}, err
	}

	patient, err := service.patients.FindByNormalizedEmail(email)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Patient{}, ErrPatientNotFound
		}
		return models.Patient{}, fmt.Errorf("load patient by email: %w", err)
	}

	challenge, ok, err := service.codes.FindLatestUsableByPatient(patient.ID)
	if err != nil {
		return models.Patient{}, fmt.Errorf("load login code: %w", err)
	}
	if !ok {
		return models.Patient{}, ErrLoginCodeNotFound
	}
	if challenge.Attempts >= models.MaxLoginCodeAttempts {
		return models.Patient{}, ErrLoginCodeLocked
	}
	if challenge.ExpiresAt.Before(now) {
		return models.Patient{}, ErrLoginCodeExpired
	}
	if !security.LoginCodeMatches(challenge.CodeHash, code) {
		if err := service.codes.IncrementAttempts(challenge.ID); err != nil {
			return models.Patient{}, fmt.Errorf("count login attempt: %w", err)
		}
		return models.Patient{}, ErrLoginCodeMismatch
	}

	if err := service.codes.MarkUsed(challenge.ID, now); err != nil {
		if isRecordNotFound(err) {
			return models.Patient{}, ErrLoginTokenUsed
		}
		return models.Patient{}, fmt.Errorf("mark login code used: %w", err)
	}
	return patient, nil
}

func (service *AuthService) VerifyLoginToken(token string, now time.Time) (models.Patient, error) {
	token = strings.TrimSpace(token)
	if err := ValidateLoginTokenFormat(token); err != nil {
		return models.Patient{}, err
	}

	challenge, err := service.codes.FindByToken(token)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Patient{}, ErrLoginCodeNotFound
		}
		return models.Patient{}, fmt.Errorf("load login token: %w", err)
	}
	switch {
	case challenge.UsedAt != nil:
		return models.Patient{}, ErrLoginTokenUsed
	case challenge.RevokedAt != nil:
		return models.Patient{}, ErrLoginTokenRevoked
	case challenge.ExpiresAt.Before(now):
		return models.Patient{}, ErrLoginCodeExpired
	}

	if err := service.codes.MarkUsed(challenge.ID, now); err != nil {
		if isRecordNotFound(err) {
			return models.Patient{}, ErrLoginTokenUsed
		}
		return models.Patient{}, fmt.Errorf("mark login token used: %w", err)
	}
	patient, err := service.patients.FindByID(challenge.PatientID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Patient{}, ErrPatientNotFound
		}
		return models.Patient{}, fmt.Errorf("load patient: %w", err)
	}
	return patient, nil
}
