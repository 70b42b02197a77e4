package entity

import "time"

// Appointment status names, seeded in appointment_statuses
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// AppointmentStatus is a row of the appointment status reference table
type AppointmentStatus struct {
	ID         int    `gorm:"primaryKey;autoIncrement" json:"id"`
	StatusName string `gorm:"type:varchar(20);uniqueIndex;not null" json:"status_name"`
}

func (AppointmentStatus) TableName() string {
	return "appointment_statuses"
}

// Appointment is a patient booking of one canonical slot with one doctor on one date.
// At most one non-cancelled appointment exists per (doctor, date, slot) and per
// (patient, date, slot); both rules are enforced by partial unique indexes.
type Appointment struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       int64     `gorm:"not null;index" json:"patient_id"`
	DoctorID        int64     `gorm:"not null;index" json:"doctor_id"`
	SlotID          int64     `gorm:"not null" json:"slot_id"`
	AppointmentDate time.Time `gorm:"type:date;not null;index" json:"appointment_date"`
	StatusID        int       `gorm:"not null" json:"status_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient           `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor            `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Slot    TimeSlot          `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
	Status  AppointmentStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
