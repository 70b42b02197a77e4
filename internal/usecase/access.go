package usecase

import (
	"context"
	"fmt"

	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// actor is the authenticated caller. Calls without one (seeder, jobs) are trusted.
type actor struct {
	userID uuid.UUID
	roleID int
}

func actorFrom(ctx context.Context) (actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return actor{}, false
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return actor{}, false
	}
	return actor{userID: userID, roleID: roleID}, true
}

// actorID is the audit log user of the call
func actorID(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}

// accessGuard resolves the caller's patient or doctor row to check ownership
type accessGuard struct {
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
}

func (g accessGuard) ownPatientID(ctx context.Context, db *gorm.DB, a actor) (int64, error) {
	patient, err := g.patientRepo.FindByUserID(ctx, db, a.userID)
	if err != nil {
		return 0, fmt.Errorf("find patient by user: %w", err)
	}
	if patient == nil {
		return 0, ErrPatientNotFound
	}
	return patient.ID, nil
}

func (g accessGuard) ownDoctorID(ctx context.Context, db *gorm.DB, a actor) (int64, error) {
	doctor, err := g.doctorRepo.FindByUserID(ctx, db, a.userID)
	if err != nil {
		return 0, fmt.Errorf("find doctor by user: %w", err)
	}
	if doctor == nil {
		return 0, ErrDoctorNotFound
	}
	return doctor.ID, nil
}

// checkPatient allows staff, or the patient acting for itself
func (g accessGuard) checkPatient(ctx context.Context, db *gorm.DB, patientID int64) error {
	a, ok := actorFrom(ctx)
	if !ok || entity.IsStaff(a.roleID) {
		return nil
	}
	if a.roleID != entity.RoleIDPatient {
		return ErrForbidden
	}
	own, err := g.ownPatientID(ctx, db, a)
	if err != nil {
		return err
	}
	if own != patientID {
		return ErrForbidden
	}
	return nil
}

// checkDoctor allows staff, or the doctor acting for itself
func (g accessGuard) checkDoctor(ctx context.Context, db *gorm.DB, doctorID int64) error {
	a, ok := actorFrom(ctx)
	if !ok || entity.IsStaff(a.roleID) {
		return nil
	}
	if a.roleID != entity.RoleIDDoctor {
		return ErrForbidden
	}
	own, err := g.ownDoctorID(ctx, db, a)
	if err != nil {
		return err
	}
	if own != doctorID {
		return ErrForbidden
	}
	return nil
}

// checkAppointment allows staff and the two parties of the appointment
func (g accessGuard) checkAppointment(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	a, ok := actorFrom(ctx)
	if !ok || entity.IsStaff(a.roleID) {
		return nil
	}
	switch a.roleID {
	case entity.RoleIDPatient:
		return g.checkPatient(ctx, db, appointment.PatientID)
	case entity.RoleIDDoctor:
		return g.checkDoctor(ctx, db, appointment.DoctorID)
	default:
		return ErrForbidden
	}
}
