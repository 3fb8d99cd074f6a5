// Package validation holds the per-entity rule set applied before any write.
// Rules live as validate tags on the entity structs; cross-field rules that
// tags cannot express are registered here as struct-level validations.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yarachoice/clinic-api/internal/model"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterStructValidation(appointmentRules, model.Appointment{})
	v.RegisterStructValidation(workingHoursRules, model.WorkingHours{})

	return &Validator{validate: v}
}

// ValidateEntity runs the declarative rules for an entity and translates any
// failures into a ValidationFailed error with field-level messages.
func (v *Validator) ValidateEntity(entity any) error {
	err := v.validate.Struct(entity)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Internal(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe)
	}
	return apperrors.Validation(fields)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be a phone number in international format"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "cancellation_reason":
		return "must be set exactly when status is cancelled"
	case "working_hours_order":
		return "start time must be before end time"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// appointmentRules: a cancellation reason must be present exactly when the
// appointment is cancelled.
func appointmentRules(sl validator.StructLevel) {
	appt := sl.Current().Interface().(model.Appointment)
	cancelled := appt.Status == model.AppointmentCancelled
	hasReason := strings.TrimSpace(appt.CancellationReason) != ""
	if cancelled != hasReason {
		sl.ReportError(appt.CancellationReason, "cancellation_reason", "CancellationReason", "cancellation_reason", "")
	}
}

// workingHoursRules: windows are "HH:MM" with start strictly before end.
func workingHoursRules(sl validator.StructLevel) {
	wh := sl.Current().Interface().(model.WorkingHours)

	start, errStart := time.Parse("15:04", wh.StartTime)
	end, errEnd := time.Parse("15:04", wh.EndTime)
	if errStart != nil || errEnd != nil {
		sl.ReportError(wh.StartTime, "start_time", "StartTime", "working_hours_order", "")
		return
	}
	if !start.Before(end) {
		sl.ReportError(wh.StartTime, "start_time", "StartTime", "working_hours_order", "")
	}
}
