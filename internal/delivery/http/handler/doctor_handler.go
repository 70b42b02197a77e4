package handler

import (
	"net/http"
	"strconv"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase       usecase.DoctorUsecase
	workingHoursUsecase usecase.WorkingHoursUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewDoctorHandler(
	doctorUsecase usecase.DoctorUsecase,
	workingHoursUsecase usecase.WorkingHoursUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	validator *validator.CustomValidator,
) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:       doctorUsecase,
		workingHoursUsecase: workingHoursUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.ListDoctors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

// DeactivateDoctor soft deletes a doctor; ?cancel_future=true also cancels
// the doctor's scheduled appointments from today on
func (h *DoctorHandler) DeactivateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.DeactivateDoctorRequest
	if raw := r.URL.Query().Get("cancel_future"); raw != "" {
		cancelFuture, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "cancel_future must be a boolean")
			return
		}
		req.CancelFutureAppointments = cancelFuture
	}

	result, err := h.doctorUsecase.DeactivateDoctor(r.Context(), doctorID, req.CancelFutureAppointments)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctor deactivated successfully", result)
}

func (h *DoctorHandler) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	hours, err := h.workingHoursUsecase.GetWorkingHours(r.Context(), doctorID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Working hours retrieved successfully", hours)
}

func (h *DoctorHandler) ReplaceWorkingHours(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.ReplaceWorkingHoursRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	hours, err := h.workingHoursUsecase.ReplaceWorkingHours(r.Context(), doctorID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Working hours replaced successfully", hours)
}

// GetAvailableSlots handles GET /doctors/{id}/available-slots?date=YYYY-MM-DD
func (h *DoctorHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathInt64(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	slots, err := h.availabilityUsecase.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *DoctorHandler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Time slots retrieved successfully", h.availabilityUsecase.ListTimeSlots(r.Context()))
}
