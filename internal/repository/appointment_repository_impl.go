package repository

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := withDetails(db.WithContext(ctx)).Where("appointments.id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorSlot(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time, slotID int64, cancelledStatusID int) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ? AND slot_id = ? AND status_id <> ?", doctorID, date, slotID, cancelledStatusID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByPatientSlot(ctx context.Context, db *gorm.DB, patientID int64, date time.Time, slotID int64, cancelledStatusID int) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Where("patient_id = ? AND appointment_date = ? AND slot_id = ? AND status_id <> ?", patientID, date, slotID, cancelledStatusID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBookedSlotIDs(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time, slotIDs []int64, cancelledStatusID int) ([]int64, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	var booked []int64
	err := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND slot_id IN ? AND status_id <> ?", doctorID, date, slotIDs, cancelledStatusID).
		Distinct().
		Pluck("slot_id", &booked).Error
	if err != nil {
		return nil, err
	}
	return booked, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, statusID int) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status_id", statusID)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateStatusByDoctorFrom(ctx context.Context, db *gorm.DB, doctorID int64, from time.Time, fromStatusID, toStatusID int) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date >= ? AND status_id = ?", doctorID, from, fromStatusID).
		Update("status_id", toStatusID)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID int64) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := newestFirst(withDetails(db.WithContext(ctx))).
		Where("appointments.patient_id = ?", patientID).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := newestFirst(withDetails(db.WithContext(ctx))).
		Where("appointments.doctor_id = ?", doctorID).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := newestFirst(withDetails(db.WithContext(ctx))).Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Slot").
		Preload("Status").
		Preload("Doctor.User").
		Preload("Patient.User")
}

// newestFirst orders by date then slot start, both descending
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN time_slots ON time_slots.id = appointments.slot_id").
		Order("appointments.appointment_date DESC, time_slots.start_time DESC")
}
