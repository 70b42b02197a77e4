package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers never need to inspect message text.
type Kind string

const (
	KindPastDate            Kind = "past_date"
	KindDoctorUnavailable   Kind = "doctor_unavailable"
	KindPatientUnavailable  Kind = "patient_unavailable"
	KindInvalidSlot         Kind = "invalid_slot"
	KindOutsideWorkingHours Kind = "outside_working_hours"
	KindSlotConflict        Kind = "slot_conflict"
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindInvalidTransition   Kind = "invalid_transition"
	KindAlreadyExists       Kind = "already_exists"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindBusy                Kind = "busy"
	KindInternal            Kind = "internal"
)

// Error is a business-rule rejection carrying a machine readable kind
// and a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an underlying error with a kind.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
// Untagged errors are internal failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the human readable reason of a tagged error.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
