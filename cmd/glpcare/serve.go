package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/glpcare/internal/api"
	"github.com/terraincognita07/glpcare/internal/db"
	"github.com/terraincognita07/glpcare/internal/logger"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type ServeCmd struct {
	Port           string `help:"HTTP listen port." env:"PORT" default:"8080"`
	SecretKey      string `name:"secret-key" help:"Session signing key, at least 32 characters." env:"SECRET_KEY"`
	CookieSecure   bool   `name:"cookie-secure" help:"Mark the session cookie Secure." env:"COOKIE_SECURE"`
	ClinicTokenMap string `name:"clinic-token-map" help:"JSON object of clinic id to access token." env:"CLINIC_TOKEN_MAP"`
	BaseURL        string `name:"base-url" help:"Public base URL used in login links." env:"APP_BASE_URL"`
	DevMode        bool   `name:"dev-mode" help:"Return login codes in API responses." env:"DEV_MODE"`
}

func (cmd *ServeCmd) Run(globals *Globals) error {
	if err := logger.Init(logger.Config{Debug: globals.Debug, LogDir: globals.LogDir}); err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}

	location := globals.location()
	time.Local = location

	secretKey, err := resolveSecretKey(cmd.SecretKey)
	if err != nil {
		return err
	}
	port, err := resolvePort(cmd.Port)
	if err != nil {
		return err
	}
	clinicTokens, err := parseClinicTokenMap(cmd.ClinicTokenMap)
	if err != nil {
		return err
	}
	if len(clinicTokens) == 0 {
		logger.Warn("CLINIC_TOKEN_MAP is empty, clinic endpoints will reject every request")
	}
	if cmd.DevMode {
		logger.Warn("dev mode is on, login codes are returned in responses")
	}

	database, err := db.OpenSQLite(globals.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.Config{
		SecretKey:    secretKey,
		CookieSecure: cmd.CookieSecure,
		ClinicTokens: clinicTokens,
		BaseURL:      cmd.BaseURL,
		DevMode:      cmd.DevMode,
		Location:     location,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newServerApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "err", err)
		}
	}()

	logger.Info("glpcare listening", "addr", "0.0.0.0:"+port, "db", globals.DBPath, "tz", location.String())
	if err := app.Listen(":" + port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newServerApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "glpcare",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func resolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "8080", nil
	}
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

// parseClinicTokenMap reads {"C001": "token", ...}. Blank input means no
// clinic has access. Keys and tokens are trimmed; blank pairs are dropped.
func parseClinicTokenMap(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return tokens, nil
	}

	parsed := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("invalid CLINIC_TOKEN_MAP: %w", err)
	}
	for clinicID, token := range parsed {
		clinicID = strings.TrimSpace(clinicID)
		token = strings.TrimSpace(token)
		if clinicID == "" || token == "" {
			continue
		}
		if _, duplicate := tokens[clinicID]; duplicate {
			return nil, fmt.Errorf("invalid CLINIC_TOKEN_MAP: clinic %q listed twice", clinicID)
		}
		tokens[clinicID] = token
	}
	return tokens, nil
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("invalid TZ, falling back to UTC", "tz", name)
		return time.UTC
	}
	return location
}
