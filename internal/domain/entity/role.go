package entity

// Role represents a user role in the system
type Role struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration
const (
	RoleIDAdmin     = 1
	RoleIDDoctor    = 2
	RoleIDSecretary = 3
	RoleIDPatient   = 4
)

// RoleNames constants
const (
	RoleAdmin     = "admin"
	RoleDoctor    = "doctor"
	RoleSecretary = "secretary"
	RolePatient   = "patient"
)

// IsStaff reports whether the role manages doctors, hours and appointments on behalf of the clinic
func IsStaff(roleID int) bool {
	return roleID == RoleIDAdmin || roleID == RoleIDSecretary
}
