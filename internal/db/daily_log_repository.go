package db

import (
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
	"gorm.io/gorm"
)

type DailyLogRepository struct {
	database *gorm.DB
}

func NewDailyLogRepository(database *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{database: database}
}

func (repo *DailyLogRepository) Create(entry *models.DailyLog) error {
	return repo.database.Create(entry).Error
}

func (repo *DailyLogRepository) CreateBatch(entries []models.DailyLog) error {
	if len(entries) == 0 {
		return nil
	}
	return repo.database.Create(&entries).Error
}

// ListByPatientSince returns entries logged at or after since, newest first.
func (repo *DailyLogRepository) ListByPatientSince(patientID uint, since time.Time) ([]models.DailyLog, error) {
	logs := make([]models.DailyLog, 0)
	if err := repo.database.
		Where("patient_id = ? AND logged_at >= ?", patientID, since.UTC()).
		Order("logged_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DailyLogRepository) ListByPatientsRange(patientIDs []uint, from time.Time, to time.Time) ([]models.DailyLog, error) {
	logs := make([]models.DailyLog, 0)
	if len(patientIDs) == 0 {
		return logs, nil
	}
	if err := repo.database.
		Where("patient_id IN ? AND logged_at >= ? AND logged_at <= ?", patientIDs, from.UTC(), to.UTC()).
		Order("logged_at ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
