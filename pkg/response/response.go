package response

import (
	"encoding/json"
	"net/http"

	"clinic-scheduler/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Total int `json:"total"`
}

// ErrorBody is the machine readable part of a failed response
type ErrorBody struct {
	Kind   apperror.Kind     `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{Success: true, Message: message, Data: data})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{Success: true, Message: message, Data: data, Meta: meta})
}

// Fail writes a failure tagged with an error kind
func Fail(w http.ResponseWriter, statusCode int, message string, kind apperror.Kind) {
	JSON(w, statusCode, Response{Message: message, Error: &ErrorBody{Kind: kind}})
}

func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, Response{
		Message: "Validation failed",
		Error:   &ErrorBody{Kind: apperror.KindInvalidInput, Fields: fields},
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, message, apperror.KindInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, orDefault(message, "Unauthorized"), apperror.KindUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	Fail(w, http.StatusForbidden, orDefault(message, "Forbidden"), apperror.KindForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, orDefault(message, "Resource not found"), apperror.KindNotFound)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Fail(w, http.StatusInternalServerError, orDefault(message, "Internal server error"), apperror.KindInternal)
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
