package repository

import (
	"context"
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Omit("User", "WorkingHours").Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// FindAllActive returns doctors that are active and whose user account is active
func (r *doctorRepository) FindAllActive(ctx context.Context, db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.WithContext(ctx).
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("doctors.is_active = ? AND users.is_active = ?", true, true).
		Preload("User").
		Order("users.last_name ASC, users.first_name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) SetActive(ctx context.Context, db *gorm.DB, id int64, active bool) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Doctor{}).
		Where("id = ?", id).
		Update("is_active", active)
	return result.RowsAffected, result.Error
}
