package db

import (
	"time"

	"github.com/terraincognita07/glpcare/internal/models"
	"gorm.io/gorm"
)

type WeeklyLogRepository struct {
	database *gorm.DB
}

func NewWeeklyLogRepository(database *gorm.DB) *WeeklyLogRepository {
	return &WeeklyLogRepository{database: database}
}

func (repo *WeeklyLogRepository) Create(entry *models.WeeklyLog) error {
	return repo.database.Create(entry).Error
}

func (repo *WeeklyLogRepository) CreateBatch(entries []models.WeeklyLog) error {
	if len(entries) == 0 {
		return nil
	}
	return repo.database.Create(&entries).Error
}

func (repo *WeeklyLogRepository) ListByPatientSince(patientID uint, since time.Time) ([]models.WeeklyLog, error) {
	logs := make([]models.WeeklyLog, 0)
	if err := repo.database.
		Where("patient_id = ? AND logged_at >= ?", patientID, since.UTC()).
		Order("logged_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *WeeklyLogRepository) ListByPatientsRange(patientIDs []uint, from time.Time, to time.Time) ([]models.WeeklyLog, error) {
	logs := make([]models.WeeklyLog, 0)
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
