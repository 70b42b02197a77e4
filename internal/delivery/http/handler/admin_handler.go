package handler

import (
	"net/http"
	"strconv"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AdminHandler struct {
	userUsecase     usecase.UserUsecase
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAdminHandler(userUsecase usecase.UserUsecase, auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		userUsecase:     userUsecase,
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.userUsecase.DeactivateUser(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "User deactivated successfully", nil)
}

// ListAuditLogs handles GET /admin/audit-logs?entity_type=&entity_id=&action=&limit=
func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := dto.AuditLogQuery{
		EntityType: params.Get("entity_type"),
		EntityID:   params.Get("entity_id"),
		Action:     params.Get("action"),
	}
	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "limit must be a number")
			return
		}
		query.Limit = limit
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	logs, err := h.auditLogUsecase.List(r.Context(), &query)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}
