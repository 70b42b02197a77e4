package dto

// WorkingHourRow is one weekday interval, times in HH:MM
type WorkingHourRow struct {
	DayOfWeek string `json:"day_of_week" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required,timeofday"`
	EndTime   string `json:"end_time" validate:"required,timeofday"`
}

type ReplaceWorkingHoursRequest struct {
	WorkingHours []WorkingHourRow `json:"working_hours" validate:"dive"`
}

type WorkingHoursResponse struct {
	DoctorID     int64            `json:"doctor_id"`
	WorkingHours []WorkingHourRow `json:"working_hours"`
}
