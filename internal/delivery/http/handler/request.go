package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

const maxBodyBytes = 1 << 20

// bindJSON decodes the request body into dst and validates it. On failure the
// response is already written and false is returned.
func bindJSON(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if err := v.Validate(dst); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}
