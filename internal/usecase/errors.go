package usecase

import (
	"errors"
	"strings"

	"clinic-scheduler/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// Booking rejections, in validation order
var (
	ErrPastDate            = apperror.New(apperror.KindPastDate, "appointment date is in the past")
	ErrDoctorUnavailable   = apperror.New(apperror.KindDoctorUnavailable, "doctor does not exist or is not active")
	ErrPatientUnavailable  = apperror.New(apperror.KindPatientUnavailable, "patient does not exist or is not active")
	ErrInvalidSlot         = apperror.New(apperror.KindInvalidSlot, "time slot does not exist")
	ErrOutsideWorkingHours = apperror.New(apperror.KindOutsideWorkingHours, "doctor does not work during this slot")
	ErrSlotConflict        = apperror.New(apperror.KindSlotConflict, "doctor is already booked for this slot")
	ErrPatientSlotConflict = apperror.New(apperror.KindSlotConflict, "patient already has an appointment in this slot")
)

var (
	ErrAppointmentNotFound = apperror.New(apperror.KindNotFound, "appointment not found")
	ErrInvalidTransition   = apperror.New(apperror.KindInvalidTransition, "only scheduled appointments can be completed")
	ErrDoctorNotFound      = apperror.New(apperror.KindNotFound, "doctor not found")
	ErrPatientNotFound     = apperror.New(apperror.KindNotFound, "patient not found")
	ErrUserNotFound        = apperror.New(apperror.KindNotFound, "user not found")
	ErrRoleNotFound        = apperror.New(apperror.KindNotFound, "role not found")
	ErrInvalidDate         = apperror.New(apperror.KindInvalidInput, "invalid date format, use YYYY-MM-DD")
	ErrPatientRequired     = apperror.New(apperror.KindInvalidInput, "patient_id is required")
	ErrNegativeFee         = apperror.New(apperror.KindInvalidInput, "consultation fee cannot be negative")
)

var (
	ErrEmailAlreadyExists    = apperror.New(apperror.KindAlreadyExists, "email already exists")
	ErrInvalidCredentials    = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrInvalidToken          = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
	ErrTokenRevoked          = apperror.New(apperror.KindUnauthorized, "token has been revoked")
	ErrForbidden             = apperror.New(apperror.KindForbidden, "you don't have permission to access this resource")
	ErrCannotDeactivateAdmin = apperror.New(apperror.KindForbidden, "admin users cannot be deactivated")
)

// Partial unique indexes on appointments, see migrations
const (
	constraintDoctorSlot  = "uq_appointments_doctor_slot"
	constraintPatientSlot = "uq_appointments_patient_slot"
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
