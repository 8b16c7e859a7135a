package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 30 * 24 * time.Hour

const (
	maxCodeRequestsPerHour = 5
	codeRequestWindow      = time.Hour
)

type requestCodeInput struct {
	Email string `json:"email" form:"email"`
}

type verifyCodeInput struct {
	Email string `json:"email" form:"email"`
	Code  string `json:"code" form:"code"`
}

type shareInput struct {
	ExpiresMinutes int `json:"expires_minutes" form:"expires_minutes"`
}

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}
