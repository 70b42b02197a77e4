package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/clock"

	"github.com/google/uuid"
)

func TimeSlotToResponse(slot entity.TimeSlot) dto.TimeSlotResponse {
	return dto.TimeSlotResponse{
		ID:        slot.ID,
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
	}
}

func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = TimeSlotToResponse(slot)
	}
	return responses
}

// AppointmentToResponse fills display fields only from loaded relations
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:        appointment.ID,
		PatientID: appointment.PatientID,
		DoctorID:  appointment.DoctorID,
		SlotID:    appointment.SlotID,
		Date:      appointment.AppointmentDate.Format(clock.DateLayout),
		Status:    appointment.Status.StatusName,
		CreatedAt: appointment.CreatedAt,
	}

	if appointment.Patient.User.ID != uuid.Nil {
		response.PatientName = appointment.Patient.User.FullName()
	}
	if appointment.Doctor.ID != 0 {
		response.DoctorName = appointment.Doctor.User.FullName()
		response.Expertise = appointment.Doctor.Expertise
	}
	if appointment.Slot.ID != 0 {
		response.StartTime = appointment.Slot.StartTime.String()
		response.EndTime = appointment.Slot.EndTime.String()
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
