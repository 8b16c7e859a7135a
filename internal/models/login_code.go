package models

import "time"

const MaxLoginCodeAttempts = 5

// LoginCode backs both the emailed magic link (Token) and the 6-digit code
// (CodeHash, bcrypt). A code is usable until UsedAt or RevokedAt is set.
type LoginCode struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"not null;uniqueIndex"`
	CodeHash  string    `gorm:"not null"`
	PatientID uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UsedAt    *time.Time
	RevokedAt *time.Time
	Attempts  int `gorm:"not null;default:0"`
}

func (code LoginCode) Usable() bool {
	return code.UsedAt == nil && code.RevokedAt == nil
}
