package repository

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Appointment, error)

	// Active lookups ignore appointments in cancelledStatusID
	FindActiveByDoctorSlot(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time, slotID int64, cancelledStatusID int) (*entity.Appointment, error)
	FindActiveByPatientSlot(ctx context.Context, db *gorm.DB, patientID int64, date time.Time, slotID int64, cancelledStatusID int) (*entity.Appointment, error)
	FindBookedSlotIDs(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time, slotIDs []int64, cancelledStatusID int) ([]int64, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, statusID int) (int64, error)
	// UpdateStatusByDoctorFrom moves every fromStatusID appointment of the doctor dated on or after from
	UpdateStatusByDoctorFrom(ctx context.Context, db *gorm.DB, doctorID int64, from time.Time, fromStatusID, toStatusID int) (int64, error)

	// List queries preload slot, doctor, patient and status, newest first
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID int64) ([]entity.Appointment, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Appointment, error)
}
