package validator

import (
	"errors"
	"fmt"
	"strings"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/clock"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator registers the scheduling tags: weekday (Mon..Sun),
// timeofday (HH:MM) and date (YYYY-MM-DD).
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return entity.Weekday(fl.Field().String()).Valid()
	})
	v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := clock.ParseDate(fl.Field().String())
		return err == nil
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var messages = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email address",
	"min":       "must be at least %s characters",
	"max":       "must be at most %s characters",
	"gte":       "must be greater than or equal to %s",
	"lte":       "must be less than or equal to %s",
	"gt":        "must be greater than %s",
	"oneof":     "must be one of: %s",
	"weekday":   "must be one of Mon, Tue, Wed, Thu, Fri, Sat, Sun",
	"timeofday": "must be a time in HH:MM format",
	"date":      "must be a date in YYYY-MM-DD format",
}

// FormatValidationErrors maps each failing field to a readable message.
func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fields
	}
	for _, e := range validationErrors {
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, e.Param())
		}
		fields[e.Field()] = e.Field() + " " + msg
	}
	return fields
}
