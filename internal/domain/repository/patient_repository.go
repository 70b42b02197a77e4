package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Patient, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Patient, error)
}
