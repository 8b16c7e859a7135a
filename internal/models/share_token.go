package models

import "time"

type ShareToken struct {
	ID        uint       `gorm:"primaryKey" json:"-"`
	Token     string     `gorm:"not null;uniqueIndex" json:"token"`
	PatientID uint       `gorm:"not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (token ShareToken) Expired(now time.Time) bool {
	return token.ExpiresAt.Before(now)
}
