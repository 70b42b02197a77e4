package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), appointmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.CompleteAppointment(r.Context(), appointmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", appointment)
}

func (h *AppointmentHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	list, err := h.appointmentUsecase.ListByPatient(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", list.Appointments, &response.Meta{Total: list.Total})
}

func (h *AppointmentHandler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	list, err := h.appointmentUsecase.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", list.Appointments, &response.Meta{Total: list.Total})
}

func (h *AppointmentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.appointmentUsecase.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", list.Appointments, &response.Meta{Total: list.Total})
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.appointmentUsecase.ListMine(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", list.Appointments, &response.Meta{Total: list.Total})
}
