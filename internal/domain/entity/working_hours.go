package entity

import "time"

// WorkingHours is a doctor's open interval for one weekday.
// Unique per (DoctorID, DayOfWeek).
type WorkingHours struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  int64     `gorm:"not null;index" json:"doctor_id"`
	DayOfWeek Weekday   `gorm:"type:varchar(3);not null" json:"day_of_week"`
	StartTime TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime   TimeOfDay `gorm:"type:time;not null" json:"end_time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WorkingHours) TableName() string {
	return "doctor_working_hours"
}

// Contains reports whether slot fits entirely inside these hours
func (h *WorkingHours) Contains(slot TimeSlot) bool {
	return slot.Within(h.StartTime, h.EndTime)
}
