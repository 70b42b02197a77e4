package repository

import (
	"context"
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type workingHoursRepository struct{}

func NewWorkingHoursRepository() domainRepo.WorkingHoursRepository {
	return &workingHoursRepository{}
}

func (r *workingHoursRepository) FindByDoctorAndWeekday(ctx context.Context, db *gorm.DB, doctorID int64, day entity.Weekday) (*entity.WorkingHours, error) {
	var hours entity.WorkingHours
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, day).
		First(&hours).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hours, nil
}

func (r *workingHoursRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.WorkingHours, error) {
	var hours []entity.WorkingHours
	// Monday-first ordering of the day symbols
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("array_position(ARRAY['Mon','Tue','Wed','Thu','Fri','Sat','Sun']::varchar[], day_of_week)").
		Find(&hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *workingHoursRepository) DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) (int64, error) {
	result := db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&entity.WorkingHours{})
	return result.RowsAffected, result.Error
}

func (r *workingHoursRepository) CreateBatch(ctx context.Context, db *gorm.DB, hours []entity.WorkingHours) error {
	if len(hours) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&hours).Error
}
