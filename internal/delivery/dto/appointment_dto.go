package dto

import "time"

// Request DTOs

// CreateAppointmentRequest books a slot. PatientID is taken from the token
// for patients; staff must send it.
type CreateAppointmentRequest struct {
	PatientID int64  `json:"patient_id" validate:"omitempty,gt=0"`
	DoctorID  int64  `json:"doctor_id" validate:"required,gt=0"`
	SlotID    int64  `json:"slot_id" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,date"`
}

// Response DTOs

type TimeSlotResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type TimeSlotListResponse struct {
	Slots []TimeSlotResponse `json:"slots"`
	Total int                `json:"total"`
}

type AvailableSlotsResponse struct {
	DoctorID int64              `json:"doctor_id"`
	Date     string             `json:"date"`
	Slots    []TimeSlotResponse `json:"slots"`
}

type AppointmentResponse struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	DoctorID    int64     `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Expertise   string    `json:"expertise,omitempty"`
	SlotID      int64     `json:"slot_id"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
