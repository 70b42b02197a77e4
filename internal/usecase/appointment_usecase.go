package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/clock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	// TryBook admits or rejects a booking. Rejections are checked in order:
	// past date, doctor, patient, slot, working hours, doctor conflict, patient conflict.
	TryBook(ctx context.Context, patientID, doctorID, slotID int64, date time.Time) (*entity.Appointment, error)
	// Cancel moves an appointment to cancelled. Cancelling twice succeeds.
	Cancel(ctx context.Context, appointmentID int64) (*entity.Appointment, error)
	Complete(ctx context.Context, appointmentID int64) (*entity.Appointment, error)

	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID int64) (*dto.AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, appointmentID int64) (*dto.AppointmentResponse, error)
	ListByPatient(ctx context.Context, patientID int64) (*dto.AppointmentListResponse, error)
	ListByDoctor(ctx context.Context, doctorID int64) (*dto.AppointmentListResponse, error)
	ListAll(ctx context.Context) (*dto.AppointmentListResponse, error)
	// ListMine lists the caller's own appointments as patient or doctor
	ListMine(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	txManager        repository.TxManager
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	doctorRepo       repository.DoctorRepository
	patientRepo      repository.PatientRepository
	workingHoursRepo repository.WorkingHoursRepository
	catalog          service.Catalog
	locker           service.KeyLocker
	cache            service.AvailabilityCache
	auditService     service.AuditService
	clock            clock.Clock
	guard            accessGuard
}

func NewAppointmentUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	workingHoursRepo repository.WorkingHoursRepository,
	catalog service.Catalog,
	locker service.KeyLocker,
	cache service.AvailabilityCache,
	auditService service.AuditService,
	clk clock.Clock,
) AppointmentUsecase {
	return &appointmentUsecase{
		txManager:        txManager,
		log:              log,
		appointmentRepo:  appointmentRepo,
		doctorRepo:       doctorRepo,
		patientRepo:      patientRepo,
		workingHoursRepo: workingHoursRepo,
		catalog:          catalog,
		locker:           locker,
		cache:            cache,
		auditService:     auditService,
		clock:            clk,
		guard:            accessGuard{patientRepo: patientRepo, doctorRepo: doctorRepo},
	}
}

func (u *appointmentUsecase) TryBook(ctx context.Context, patientID, doctorID, slotID int64, date time.Time) (*entity.Appointment, error) {
	date = clock.DateOf(date)
	if date.Before(u.clock.Today()) {
		return nil, ErrPastDate
	}

	var appointment *entity.Appointment
	key := service.BookingLockKey(doctorID, date, slotID)

	// The lock serialises same-cell bookings; the unique indexes catch the rest
	err := u.locker.WithLock(ctx, key, func(ctx context.Context) error {
		return u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
			created, err := u.book(ctx, tx, patientID, doctorID, slotID, date)
			if err != nil {
				return err
			}
			appointment = created
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	u.cache.Invalidate(ctx, doctorID, date)

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"doctor_id":      doctorID,
		"patient_id":     patientID,
		"slot_id":        slotID,
		"date":           date.Format(clock.DateLayout),
	}).Info("Appointment booked")

	return appointment, nil
}

func (u *appointmentUsecase) book(ctx context.Context, tx *gorm.DB, patientID, doctorID, slotID int64, date time.Time) (*entity.Appointment, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	if doctor == nil || !doctor.IsActive || !doctor.User.IsActive {
		return nil, ErrDoctorUnavailable
	}

	patient, err := u.patientRepo.FindByID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil || !patient.IsActive() {
		return nil, ErrPatientUnavailable
	}

	slot, ok := u.catalog.Slot(slotID)
	if !ok {
		return nil, ErrInvalidSlot
	}

	hours, err := u.workingHoursRepo.FindByDoctorAndWeekday(ctx, tx, doctorID, entity.WeekdayOf(date))
	if err != nil {
		u.log.Warnf("Failed to find working hours: %+v", err)
		return nil, fmt.Errorf("find working hours: %w", err)
	}
	if hours == nil || !hours.Contains(slot) {
		return nil, ErrOutsideWorkingHours
	}

	cancelledID, err := u.catalog.StatusID(entity.StatusCancelled)
	if err != nil {
		return nil, err
	}
	scheduledID, err := u.catalog.StatusID(entity.StatusScheduled)
	if err != nil {
		return nil, err
	}

	taken, err := u.appointmentRepo.FindActiveByDoctorSlot(ctx, tx, doctorID, date, slotID, cancelledID)
	if err != nil {
		u.log.Warnf("Failed to check doctor slot: %+v", err)
		return nil, fmt.Errorf("check doctor slot: %w", err)
	}
	if taken != nil {
		return nil, ErrSlotConflict
	}

	busy, err := u.appointmentRepo.FindActiveByPatientSlot(ctx, tx, patientID, date, slotID, cancelledID)
	if err != nil {
		u.log.Warnf("Failed to check patient slot: %+v", err)
		return nil, fmt.Errorf("check patient slot: %w", err)
	}
	if busy != nil {
		return nil, ErrPatientSlotConflict
	}

	appointment := &entity.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		SlotID:          slotID,
		AppointmentDate: date,
		StatusID:        scheduledID,
	}
	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		// Another writer committed between our check and insert
		if isDuplicateKeyError(err, constraintDoctorSlot) {
			return nil, ErrSlotConflict
		}
		if isDuplicateKeyError(err, constraintPatientSlot) {
			return nil, ErrPatientSlotConflict
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionAppointmentCreate,
		"appointment", appointment.ID, appointmentSnapshot(appointment, entity.StatusScheduled)); err != nil {
		return nil, err
	}

	appointment.Doctor = *doctor
	appointment.Patient = *patient
	appointment.Slot = slot
	appointment.Status = entity.AppointmentStatus{ID: scheduledID, StatusName: entity.StatusScheduled}

	return appointment, nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID int64) (*entity.Appointment, error) {
	return u.transition(ctx, appointmentID, entity.StatusCancelled)
}

func (u *appointmentUsecase) Complete(ctx context.Context, appointmentID int64) (*entity.Appointment, error) {
	return u.transition(ctx, appointmentID, entity.StatusCompleted)
}

// transition applies a status change in one transaction.
// cancelled is reachable from any status; completed only from scheduled.
func (u *appointmentUsecase) transition(ctx context.Context, appointmentID int64, target string) (*entity.Appointment, error) {
	targetID, err := u.catalog.StatusID(target)
	if err != nil {
		return nil, err
	}
	scheduledID, err := u.catalog.StatusID(entity.StatusScheduled)
	if err != nil {
		return nil, err
	}

	var appointment *entity.Appointment
	changed := false

	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		found, err := u.appointmentRepo.FindByID(ctx, tx, appointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return fmt.Errorf("find appointment: %w", err)
		}
		if found == nil {
			return ErrAppointmentNotFound
		}
		appointment = found

		if found.StatusID == targetID {
			return nil
		}
		if target == entity.StatusCompleted && found.StatusID != scheduledID {
			return ErrInvalidTransition
		}

		if _, err := u.appointmentRepo.UpdateStatus(ctx, tx, appointmentID, targetID); err != nil {
			u.log.Warnf("Failed to update appointment status: %+v", err)
			return fmt.Errorf("update appointment status: %w", err)
		}

		action := entity.AuditActionAppointmentCancel
		if target == entity.StatusCompleted {
			action = entity.AuditActionAppointmentComplete
		}
		if err := u.auditService.LogUpdate(ctx, tx, actorID(ctx), action, "appointment", appointmentID,
			appointmentSnapshot(found, found.Status.StatusName), appointmentSnapshot(found, target)); err != nil {
			return err
		}

		found.StatusID = targetID
		found.Status = entity.AppointmentStatus{ID: targetID, StatusName: target}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		u.cache.Invalidate(ctx, appointment.DoctorID, appointment.AppointmentDate)
		u.log.WithFields(logrus.Fields{
			"appointment_id": appointmentID,
			"status":         target,
		}).Info("Appointment status changed")
	}

	return appointment, nil
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	patientID := req.PatientID
	if a, ok := actorFrom(ctx); ok && a.roleID == entity.RoleIDPatient && patientID == 0 {
		patientID, err = u.guard.ownPatientID(ctx, u.txManager.Conn(ctx), a)
		if err != nil {
			return nil, err
		}
	}
	if patientID == 0 {
		return nil, ErrPatientRequired
	}
	if err := u.guard.checkPatient(ctx, u.txManager.Conn(ctx), patientID); err != nil {
		return nil, err
	}

	appointment, err := u.TryBook(ctx, patientID, req.DoctorID, req.SlotID, date)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID int64) (*dto.AppointmentResponse, error) {
	if err := u.checkAppointmentAccess(ctx, appointmentID); err != nil {
		return nil, err
	}
	appointment, err := u.Cancel(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, appointmentID int64) (*dto.AppointmentResponse, error) {
	if err := u.checkAppointmentAccess(ctx, appointmentID); err != nil {
		return nil, err
	}
	appointment, err := u.Complete(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) checkAppointmentAccess(ctx context.Context, appointmentID int64) error {
	if _, ok := actorFrom(ctx); !ok {
		return nil
	}
	db := u.txManager.Conn(ctx)
	appointment, err := u.appointmentRepo.FindByID(ctx, db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return fmt.Errorf("find appointment: %w", err)
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	return u.guard.checkAppointment(ctx, db, appointment)
}

func (u *appointmentUsecase) ListByPatient(ctx context.Context, patientID int64) (*dto.AppointmentListResponse, error) {
	db := u.txManager.Conn(ctx)
	if err := u.guard.checkPatient(ctx, db, patientID); err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByID(ctx, db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(ctx, db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %d: %+v", patientID, err)
		return nil, err
	}
	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) ListByDoctor(ctx context.Context, doctorID int64) (*dto.AppointmentListResponse, error) {
	db := u.txManager.Conn(ctx)
	if err := u.guard.checkDoctor(ctx, db, doctorID); err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByID(ctx, db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(ctx, db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %d: %+v", doctorID, err)
		return nil, err
	}
	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) ListAll(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx, u.txManager.Conn(ctx))
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) ListMine(ctx context.Context) (*dto.AppointmentListResponse, error) {
	a, ok := actorFrom(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	db := u.txManager.Conn(ctx)

	switch a.roleID {
	case entity.RoleIDPatient:
		patientID, err := u.guard.ownPatientID(ctx, db, a)
		if err != nil {
			return nil, err
		}
		return u.ListByPatient(ctx, patientID)
	case entity.RoleIDDoctor:
		doctorID, err := u.guard.ownDoctorID(ctx, db, a)
		if err != nil {
			return nil, err
		}
		return u.ListByDoctor(ctx, doctorID)
	default:
		return u.ListAll(ctx)
	}
}

func appointmentList(appointments []entity.Appointment) *dto.AppointmentListResponse {
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}
}

// appointmentSnapshot is the audit representation of an appointment
func appointmentSnapshot(a *entity.Appointment, status string) map[string]any {
	return map[string]any{
		"patient_id": a.PatientID,
		"doctor_id":  a.DoctorID,
		"slot_id":    a.SlotID,
		"date":       a.AppointmentDate.Format(clock.DateLayout),
		"status":     status,
	}
}
