package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type timeSlotRepository struct{}

func NewTimeSlotRepository() domainRepo.TimeSlotRepository {
	return &timeSlotRepository{}
}

func (r *timeSlotRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.WithContext(ctx).Order("start_time ASC, id ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

type appointmentStatusRepository struct{}

func NewAppointmentStatusRepository() domainRepo.AppointmentStatusRepository {
	return &appointmentStatusRepository{}
}

func (r *appointmentStatusRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.AppointmentStatus, error) {
	var statuses []entity.AppointmentStatus
	err := db.WithContext(ctx).Order("id ASC").Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}
