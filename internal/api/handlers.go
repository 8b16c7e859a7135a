package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/glpcare/internal/db"
	"github.com/terraincognita07/glpcare/internal/services"
	"gorm.io/gorm"
)

// Config carries the runtime settings the handlers depend on.
type Config struct {
	SecretKey    string
	CookieSecure bool
	ClinicTokens map[string]string
	BaseURL      string
	DevMode      bool
	Location     *time.Location
}

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	devMode      bool
	baseURL      string
	clinicTokens map[string]string
	codeLimiter  *attemptLimiter
	now          func() time.Time

	repositories     *db.Repositories
	authService      *services.AuthService
	logService       *services.LogService
	shareService     *services.ShareService
	dashboardService *services.DashboardService
}

func NewHandler(database *gorm.DB, config Config) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(config.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	location := config.Location
	if location == nil {
		location = time.UTC
	}

	tokens := make(map[string]string, len(config.ClinicTokens))
	for clinicID, token := range config.ClinicTokens {
		clinicID = strings.TrimSpace(clinicID)
		token = strings.TrimSpace(token)
		if clinicID == "" || token == "" {
			continue
		}
		tokens[clinicID] = token
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(config.SecretKey),
		location:     location,
		cookieSecure: config.CookieSecure,
		devMode:      config.DevMode,
		baseURL:      strings.TrimRight(strings.TrimSpace(config.BaseURL), "/"),
		clinicTokens: tokens,
		codeLimiter:  newAttemptLimiter(),
		now:          time.Now,
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) currentTime() time.Time {
	return handler.now().UTC()
}
