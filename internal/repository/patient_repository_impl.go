package repository

import (
	"context"
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit("User").Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
