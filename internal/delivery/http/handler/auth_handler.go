package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// RegisterPatient handles POST /auth/register/patient
func (h *AuthHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	user, err := h.authUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Patient registered successfully", user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// RefreshToken trades a refresh token for a new token pair. The old refresh
// token stops working.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// Logout revokes the access token that authenticated the request
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, hasUser := middleware.GetUserIDFromContext(r.Context())
	tokenID, hasToken := middleware.GetTokenIDFromContext(r.Context())
	if !hasUser || !hasToken {
		response.Unauthorized(w, "Invalid token")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), userID, tokenID); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}
