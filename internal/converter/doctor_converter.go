package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		FullName:        doctor.User.FullName(),
		Email:           doctor.User.Email,
		Expertise:       doctor.Expertise,
		ConsultationFee: doctor.ConsultationFee,
		IsActive:        doctor.IsActive,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func WorkingHoursToRows(hours []entity.WorkingHours) []dto.WorkingHourRow {
	rows := make([]dto.WorkingHourRow, len(hours))
	for i, h := range hours {
		rows[i] = dto.WorkingHourRow{
			DayOfWeek: string(h.DayOfWeek),
			StartTime: h.StartTime.String(),
			EndTime:   h.EndTime.String(),
		}
	}
	return rows
}
