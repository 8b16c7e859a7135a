package db

import (
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
	"gorm.io/gorm"
)

type LoginCodeRepository struct {
	database *gorm.DB
}

func NewLoginCodeRepository(database *gorm.DB) *LoginCodeRepository {
	return &LoginCodeRepository{database: database}
}

// CreateRevokingPrevious stores a new code and revokes every still-usable
// code of the same patient, so only the newest code can be redeemed.
func (repo *LoginCodeRepository) CreateRevokingPrevious(code *models.LoginCode, now time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LoginCode{}).
			Where("patient_id = ? AND used_at IS NULL AND revoked_at IS NULL", code.PatientID).
			Update("revoked_at", now.UTC()).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (repo *LoginCodeRepository) FindLatestUsableByPatient(patientID uint) (models.LoginCode, bool, error) {
	code := models.LoginCode{}
	result := repo.database.
		Where("patient_id = ? AND used_at IS NULL AND revoked_at IS NULL", patientID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&code)
	if result.Error != nil {
		return models.LoginCode{}, false, result.Error
	}
	return code, result.RowsAffected > 0, nil
}

func (repo *LoginCodeRepository) FindByToken(token string) (models.LoginCode, error) {
	var code models.LoginCode
	if err := repo.database.Where("token = ?", token).First(&code).Error; err != nil {
		return models.LoginCode{}, err
	}
	return code, nil
}

func (repo *LoginCodeRepository) IncrementAttempts(codeID uint) error {
	return repo.database.Model(&models.LoginCode{}).
		Where("id = ?", codeID).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// MarkUsed redeems a still-usable code. It returns gorm.ErrRecordNotFound
// when the code was already used or revoked, so only one redemption wins.
func (repo *LoginCodeRepository) MarkUsed(codeID uint, at time.Time) error {
	result := repo.database.Model(&models.LoginCode{}).
		Where("id = ? AND used_at IS NULL AND revoked_at IS NULL", codeID).
		Update("used_at", at.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
