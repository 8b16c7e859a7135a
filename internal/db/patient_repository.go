package db

import (
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/glpcare/internal/models"
	"gorm.io/gorm"
)

type PatientRepository struct {
	database *gorm.DB
}

func NewPatientRepository(database *gorm.DB) *PatientRepository {
	return &PatientRepository{database: database}
}

func (repo *PatientRepository) FindByID(patientID uint) (models.Patient, error) {
	var patient models.Patient
	if err := repo.database.First(&patient, patientID).Error; err != nil {
		return models.Patient{}, err
	}
	return patient, nil
}

func (repo *PatientRepository) FindByUserID(userID string) (models.Patient, error) {
	var patient models.Patient
	if err := repo.database.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return models.Patient{}, err
	}
	return patient, nil
}

func (repo *PatientRepository) FindByNormalizedEmail(email string) (models.Patient, error) {
	var patient models.Patient
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&patient).Error; err != nil {
		return models.Patient{}, err
	}
	return patient, nil
}

func (repo *PatientRepository) FindByPatientCode(code string) (models.Patient, error) {
	var patient models.Patient
	if err := repo.database.Where("patient_code = ?", strings.TrimSpace(code)).First(&patient).Error; err != nil {
		return models.Patient{}, err
	}
	return patient, nil
}

// ListByClinic matches patients whose clinic_id equals the clinic (any case)
// or whose patient code carries the clinic prefix, e.g. C001-4827.
func (repo *PatientRepository) ListByClinic(clinicID string) ([]models.Patient, error) {
	normalized := strings.ToUpper(strings.TrimSpace(clinicID))
	prefix := normalized + "-"
	patients := make([]models.Patient, 0)
	if err := repo.database.
		Where("upper(trim(clinic_id)) = ? OR substr(upper(patient_code), 1, ?) = ?", normalized, utf8.RuneCountInString(prefix), prefix).
		Order("patient_code ASC, id ASC").
		Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (repo *PatientRepository) Create(patient *models.Patient) error {
	return repo.database.Create(patient).Error
}

func (repo *PatientRepository) Save(patient *models.Patient) error {
	return repo.database.Save(patient).Error
}
