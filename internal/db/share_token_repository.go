package db

import (
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
	"gorm.io/gorm"
)

type ShareTokenRepository struct {
	database *gorm.DB
}

func NewShareTokenRepository(database *gorm.DB) *ShareTokenRepository {
	return &ShareTokenRepository{database: database}
}

func (repo *ShareTokenRepository) Create(token *models.ShareToken) error {
	return repo.database.Create(token).Error
}

func (repo *ShareTokenRepository) FindByToken(value string) (models.ShareToken, error) {
	var token models.ShareToken
	if err := repo.database.Where("token = ?", value).First(&token).Error; err != nil {
		return models.ShareToken{}, err
	}
	return token, nil
}

func (repo *ShareTokenRepository) ListByPatient(patientID uint, limit int) ([]models.ShareToken, error) {
	tokens := make([]models.ShareToken, 0)
	if err := repo.database.
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (repo *ShareTokenRepository) Revoke(tokenID uint, at time.Time) error {
	return repo.database.Model(&models.ShareToken{}).
		Where("id = ? AND revoked_at IS NULL", tokenID).
		Update("revoked_at", at.UTC()).Error
}
