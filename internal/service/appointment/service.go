// Package appointment manages bookings. Creation verifies the referenced
// patient, doctor and treatment and rejects double-booking a doctor.
package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/entity"
	"github.com/yarachoice/clinic-api/internal/validation"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

var sortFields = map[string]string{
	"scheduled_date_time": "scheduledDateTime",
	"status":              "status",
	"created_at":          "createdAt",
}

var searchFields = map[string]string{
	"status": "status",
}

// Checker reports whether a referenced record exists. The doctor, patient and
// treatment services satisfy it.
type Checker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	*entity.Service[model.Appointment, *model.Appointment]
	patients   Checker
	doctors    Checker
	treatments Checker
	logger     zerolog.Logger
}

func NewService(
	store entity.Store[model.Appointment],
	validator *validation.Validator,
	patients, doctors, treatments Checker,
	logger zerolog.Logger,
) *Service {
	return &Service{
		Service:    entity.NewService[model.Appointment](store, validator, "appointment", sortFields, searchFields, logger),
		patients:   patients,
		doctors:    doctors,
		treatments: treatments,
		logger:     logger.With().Str("service", "appointment").Logger(),
	}
}

// ListActive returns non-deleted appointments.
func (s *Service) ListActive(ctx context.Context) ([]model.Appointment, error) {
	return s.List(ctx, bson.M{"isDeleted": false})
}

// ListByDoctor returns a doctor's non-deleted appointments.
func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return []model.Appointment{}, nil
	}
	return s.List(ctx, bson.M{"doctorId": oid, "isDeleted": false})
}

// ListByPatient returns a patient's non-deleted appointments.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return []model.Appointment{}, nil
	}
	return s.List(ctx, bson.M{"patientId": oid, "isDeleted": false})
}

// Create books an appointment in the scheduled state after verifying every
// referenced record and the doctor's calendar.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	fields := map[string]string{}

	patientID, err := s.checkRef(ctx, s.patients, req.PatientID, "patient_id", fields)
	if err != nil {
		return nil, err
	}
	doctorID, err := s.checkRef(ctx, s.doctors, req.DoctorID, "doctor_id", fields)
	if err != nil {
		return nil, err
	}
	treatmentID, err := s.checkRef(ctx, s.treatments, req.TreatmentID, "treatment_id", fields)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	conflict, err := s.hasConflict(ctx, doctorID, primitive.NilObjectID, req.ScheduledDateTime, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.Validation(map[string]string{
			"scheduled_date_time": "doctor already has an appointment in this time slot",
		})
	}

	a := &model.Appointment{
		PatientID:         patientID,
		DoctorID:          doctorID,
		TreatmentID:       treatmentID,
		ScheduledDateTime: req.ScheduledDateTime,
		DurationMinutes:   req.DurationMinutes,
		Status:            model.AppointmentScheduled,
		Notes:             req.Notes,
	}
	return s.Insert(ctx, a)
}

// Update merges the request onto the stored appointment and re-validates.
// Moving the slot re-checks the doctor's calendar.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(a)

	if req.ScheduledDateTime != nil || req.DurationMinutes != nil {
		conflict, err := s.hasConflict(ctx, a.DoctorID, a.ID, a.ScheduledDateTime, a.DurationMinutes)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, apperrors.Validation(map[string]string{
				"scheduled_date_time": "doctor already has an appointment in this time slot",
			})
		}
	}

	return s.Replace(ctx, id, a)
}

// Cancel marks the appointment cancelled with the given reason.
func (s *Service) Cancel(ctx context.Context, id, reason string) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == model.AppointmentCancelled {
		return nil, apperrors.Validation(map[string]string{
			"status": "appointment is already cancelled",
		})
	}
	if a.Status == model.AppointmentCompleted {
		return nil, apperrors.Validation(map[string]string{
			"status": "completed appointments cannot be cancelled",
		})
	}

	a.Status = model.AppointmentCancelled
	a.CancellationReason = reason
	updated, err := s.Replace(ctx, id, a)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Msg("appointment cancelled")
	return updated, nil
}

func (s *Service) checkRef(ctx context.Context, c Checker, id, field string, fields map[string]string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		fields[field] = "invalid id"
		return primitive.NilObjectID, nil
	}
	ok, err := c.Exists(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !ok {
		fields[field] = "referenced record does not exist"
	}
	return oid, nil
}

// hasConflict reports whether the doctor already has a live appointment
// overlapping [start, start+duration). exclude skips the appointment being
// rescheduled.
func (s *Service) hasConflict(ctx context.Context, doctorID, exclude primitive.ObjectID, start time.Time, durationMinutes int) (bool, error) {
	existing, err := s.List(ctx, bson.M{"doctorId": doctorID, "isDeleted": false})
	if err != nil {
		return false, err
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	for _, other := range existing {
		if other.ID == exclude {
			continue
		}
		if other.Status == model.AppointmentCancelled || other.Status == model.AppointmentNoShow {
			continue
		}
		otherEnd := other.ScheduledDateTime.Add(time.Duration(other.DurationMinutes) * time.Minute)
		if start.Before(otherEnd) && other.ScheduledDateTime.Before(end) {
			return true, nil
		}
	}
	return false, nil
}
