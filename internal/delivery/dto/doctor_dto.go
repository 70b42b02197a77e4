package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email           string           `json:"email" validate:"required,email"`
	Password        string           `json:"password" validate:"required,min=6"`
	FirstName       string           `json:"first_name" validate:"required,max=100"`
	LastName        string           `json:"last_name" validate:"required,max=100"`
	Expertise       string           `json:"expertise" validate:"required,max=100"`
	ConsultationFee decimal.Decimal  `json:"consultation_fee"`
	WorkingHours    []WorkingHourRow `json:"working_hours" validate:"omitempty,dive"`
}

// DeactivateDoctorRequest is read from the query string of DELETE /admin/doctors/{id}
type DeactivateDoctorRequest struct {
	CancelFutureAppointments bool
}

// Response DTOs

type DoctorResponse struct {
	ID              int64           `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	Expertise       string          `json:"expertise"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	IsActive        bool            `json:"is_active"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type DeactivateDoctorResponse struct {
	DoctorID              int64 `json:"doctor_id"`
	CancelledAppointments int64 `json:"cancelled_appointments"`
}
