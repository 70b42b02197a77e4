package entity

import "github.com/google/uuid"

// Patient links a user account to the patient role.
// A patient is bookable only while the linked user is active.
type Patient struct {
	ID     int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Phone  string    `gorm:"type:varchar(20)" json:"phone,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// IsActive reports whether the linked user account is active.
// The User relation must be preloaded.
func (p *Patient) IsActive() bool {
	return p.User.ID != uuid.Nil && p.User.IsActive
}
