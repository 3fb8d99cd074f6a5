package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	require.Equal(t, apperrors.ErrValidation, appErr.Code)
	return appErr.Fields
}

func validAppointment() *model.Appointment {
	return &model.Appointment{
		PatientID:         primitive.NewObjectID(),
		DoctorID:          primitive.NewObjectID(),
		TreatmentID:       primitive.NewObjectID(),
		ScheduledDateTime: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes:   60,
		Status:            model.AppointmentScheduled,
	}
}

func TestFieldNamesAreWireNames(t *testing.T) {
	v := New()

	err := v.ValidateEntity(&model.Product{StockQuantity: -1})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "stock_quantity") // not StockQuantity
}

func TestAppointmentCancellationReasonRule(t *testing.T) {
	v := New()

	appt := validAppointment()
	require.NoError(t, v.ValidateEntity(appt))

	// Cancelled without a reason.
	appt.Status = model.AppointmentCancelled
	fields := fieldsOf(t, v.ValidateEntity(appt))
	assert.Contains(t, fields, "cancellation_reason")

	appt.CancellationReason = "patient request"
	require.NoError(t, v.ValidateEntity(appt))

	// A reason on a non-cancelled appointment is also rejected.
	appt.Status = model.AppointmentCompleted
	fields = fieldsOf(t, v.ValidateEntity(appt))
	assert.Contains(t, fields, "cancellation_reason")
}

func TestAppointmentDurationBounds(t *testing.T) {
	v := New()

	appt := validAppointment()
	appt.DurationMinutes = 0
	fields := fieldsOf(t, v.ValidateEntity(appt))
	assert.Contains(t, fields, "duration_minutes")

	appt.DurationMinutes = 481
	fields = fieldsOf(t, v.ValidateEntity(appt))
	assert.Contains(t, fields, "duration_minutes")
}

func TestWorkingHoursOrderRule(t *testing.T) {
	v := New()

	d := &model.Doctor{
		FirstName:      "Dana",
		LastName:       "Reed",
		Email:          "dana@example.com",
		Phone:          "+96170123456",
		Specialization: "Dermatology",
		LicenseNumber:  "LB-1234",
		WorkingHours: []model.WorkingHours{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		},
	}
	require.NoError(t, v.ValidateEntity(d))

	d.WorkingHours[0].EndTime = "08:00"
	fields := fieldsOf(t, v.ValidateEntity(d))
	assert.Contains(t, fields, "start_time")

	d.WorkingHours[0].EndTime = "not-a-time"
	fields = fieldsOf(t, v.ValidateEntity(d))
	assert.Contains(t, fields, "start_time")

	d.WorkingHours = nil
	fields = fieldsOf(t, v.ValidateEntity(d))
	assert.Contains(t, fields, "working_hours")
}

func TestDoctorPhoneMustBeInternational(t *testing.T) {
	v := New()

	d := &model.Doctor{
		FirstName:      "Dana",
		LastName:       "Reed",
		Email:          "dana@example.com",
		Phone:          "03-123456",
		Specialization: "Dermatology",
		LicenseNumber:  "LB-1234",
		WorkingHours: []model.WorkingHours{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		},
	}
	fields := fieldsOf(t, v.ValidateEntity(d))
	assert.Contains(t, fields, "phone")
}

func TestCategoryEnums(t *testing.T) {
	v := New()

	p := &model.Product{
		Name:         "Serum",
		Description:  "desc",
		Category:     "weapons",
		Price:        10,
		Manufacturer: "Acme",
	}
	fields := fieldsOf(t, v.ValidateEntity(p))
	assert.Contains(t, fields, "category")

	tr := &model.Treatment{
		Name:            "Peel",
		Description:     "desc",
		Category:        "nope",
		DurationMinutes: 30,
		Price:           100,
	}
	fields = fieldsOf(t, v.ValidateEntity(tr))
	assert.Contains(t, fields, "category")
}
