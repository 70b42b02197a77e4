package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor represents the doctor-specific data attached to a user account.
// Doctors are deactivated, never deleted, so appointment history stays intact.
type Doctor struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Expertise       string          `gorm:"type:varchar(100);not null;index" json:"expertise"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`
	IsActive        bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	WorkingHours []WorkingHours `gorm:"foreignKey:DoctorID" json:"working_hours,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
