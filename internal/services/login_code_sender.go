package services

import "github.com/terraincognita07/glpcare/internal/logger"

// LogCodeSender writes login codes to the application log instead of
// sending mail.
type LogCodeSender struct{}

func (LogCodeSender) SendLoginCode(email string, code string, link string) error {
	logger.Info("login code issued", "email", email, "code", code, "link", link)
	return nil
}
