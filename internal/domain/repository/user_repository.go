package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindAllActive(ctx context.Context, db *gorm.DB) ([]entity.User, error)
	SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error)
}
