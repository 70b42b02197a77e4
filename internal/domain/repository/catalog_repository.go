package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

// TimeSlotRepository reads the canonical slot table, ordered by start time
type TimeSlotRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.TimeSlot, error)
}

type AppointmentStatusRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.AppointmentStatus, error)
}
