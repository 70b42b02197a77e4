package repository

import (
	"context"
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("Role", "Doctor", "Patient").Create(user).Error
}

func (r *userRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).
		Preload("Role").Preload("Doctor").Preload("Patient").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAllActive(ctx context.Context, db *gorm.DB) ([]entity.User, error) {
	var users []entity.User
	err := db.WithContext(ctx).
		Preload("Role").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	return result.RowsAffected, result.Error
}
