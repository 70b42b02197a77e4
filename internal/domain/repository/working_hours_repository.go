package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type WorkingHoursRepository interface {
	// FindByDoctorAndWeekday returns nil, nil when the doctor does not work that day
	FindByDoctorAndWeekday(ctx context.Context, db *gorm.DB, doctorID int64, day entity.Weekday) (*entity.WorkingHours, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.WorkingHours, error)
	DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) (int64, error)
	CreateBatch(ctx context.Context, db *gorm.DB, hours []entity.WorkingHours) error
}
