package handler

import (
	"net/http"
	"strconv"

	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/response"

	"github.com/gorilla/mux"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindPastDate:            http.StatusBadRequest,
	apperror.KindInvalidSlot:         http.StatusBadRequest,
	apperror.KindOutsideWorkingHours: http.StatusBadRequest,
	apperror.KindInvalidInput:        http.StatusBadRequest,
	apperror.KindUnauthorized:        http.StatusUnauthorized,
	apperror.KindForbidden:           http.StatusForbidden,
	apperror.KindNotFound:            http.StatusNotFound,
	apperror.KindSlotConflict:        http.StatusConflict,
	apperror.KindAlreadyExists:       http.StatusConflict,
	apperror.KindDoctorUnavailable:   http.StatusUnprocessableEntity,
	apperror.KindPatientUnavailable:  http.StatusUnprocessableEntity,
	apperror.KindInvalidTransition:   http.StatusUnprocessableEntity,
	apperror.KindBusy:                http.StatusServiceUnavailable,
}

// StatusOf maps an error kind to its HTTP status
func StatusOf(kind apperror.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError renders a usecase error. Untagged errors never leak their text.
func writeError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	response.Fail(w, StatusOf(kind), apperror.MessageOf(err), kind)
}

func pathInt64(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
