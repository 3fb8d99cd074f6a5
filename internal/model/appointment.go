package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

type Appointment struct {
	Base              `bson:",inline"`
	PatientID         primitive.ObjectID `bson:"patientId" json:"patient_id" validate:"required"`
	DoctorID          primitive.ObjectID `bson:"doctorId" json:"doctor_id" validate:"required"`
	TreatmentID       primitive.ObjectID `bson:"treatmentId" json:"treatment_id" validate:"required"`
	ScheduledDateTime time.Time          `bson:"scheduledDateTime" json:"scheduled_date_time" validate:"required"`
	DurationMinutes   int                `bson:"duration" json:"duration_minutes" validate:"gt=0,lte=480"`
	Status            AppointmentStatus  `bson:"status" json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty" validate:"max=1000"`
	// CancellationReason must be present exactly when Status is cancelled;
	// enforced by the appointment struct-level rule.
	CancellationReason string `bson:"cancellationReason,omitempty" json:"cancellation_reason,omitempty" validate:"max=500"`
}

type CreateAppointmentRequest struct {
	PatientID         string    `json:"patient_id" binding:"required"`
	DoctorID          string    `json:"doctor_id" binding:"required"`
	TreatmentID       string    `json:"treatment_id" binding:"required"`
	ScheduledDateTime time.Time `json:"scheduled_date_time" binding:"required"`
	DurationMinutes   int       `json:"duration_minutes" binding:"required,gt=0"`
	Notes             string    `json:"notes"`
}

// UpdateAppointmentRequest merges onto the stored appointment: nil fields
// keep their prior values.
type UpdateAppointmentRequest struct {
	ScheduledDateTime  *time.Time         `json:"scheduled_date_time,omitempty"`
	DurationMinutes    *int               `json:"duration_minutes,omitempty"`
	Status             *AppointmentStatus `json:"status,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	CancellationReason *string            `json:"cancellation_reason,omitempty"`
}

func (r *UpdateAppointmentRequest) Apply(a *Appointment) {
	if r.ScheduledDateTime != nil {
		a.ScheduledDateTime = *r.ScheduledDateTime
	}
	if r.DurationMinutes != nil {
		a.DurationMinutes = *r.DurationMinutes
	}
	if r.Status != nil {
		a.Status = *r.Status
	}
	if r.Notes != nil {
		a.Notes = *r.Notes
	}
	if r.CancellationReason != nil {
		a.CancellationReason = *r.CancellationReason
	}
}
