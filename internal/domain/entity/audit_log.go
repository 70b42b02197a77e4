package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog records one state change together with the actor who made it.
// UserID is nil for system actions such as seeding.
type AuditLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null" json:"action"`
	EntityType string     `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(64);not null" json:"entity_id"`
	OldValue   Snapshot   `gorm:"type:jsonb" json:"old_value"`
	NewValue   Snapshot   `gorm:"type:jsonb" json:"new_value"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Snapshot is the JSON encoding of a row at audit time, stored as jsonb.
type Snapshot []byte

func NewSnapshot(v any) (Snapshot, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return Snapshot(raw), nil
}

func (s Snapshot) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return []byte(s), nil
}

func (s *Snapshot) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = nil
	case []byte:
		*s = append(Snapshot(nil), v...)
	case string:
		*s = Snapshot(v)
	default:
		return fmt.Errorf("cannot scan %T into Snapshot", value)
	}
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// Audit actions
const (
	AuditActionUserRegister        = "user.register"
	AuditActionUserDeactivate      = "user.deactivate"
	AuditActionAppointmentCreate   = "appointment.create"
	AuditActionAppointmentCancel   = "appointment.cancel"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionWorkingHoursReplace = "working_hours.replace"
	AuditActionDoctorCreate        = "doctor.create"
	AuditActionDoctorDeactivate    = "doctor.deactivate"
)
