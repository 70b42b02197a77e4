package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Doctor, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	FindAllActive(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error)
	SetActive(ctx context.Context, db *gorm.DB, id int64, active bool) (int64, error)
}
