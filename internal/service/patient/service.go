// Package patient manages patient records. Creating a patient also provisions
// the login account and sends a welcome email.
package patient

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/email"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/entity"
	"github.com/yarachoice/clinic-api/internal/service/user"
	"github.com/yarachoice/clinic-api/internal/validation"
)

var sortFields = map[string]string{
	"first_name":    "firstName",
	"last_name":     "lastName",
	"email":         "email",
	"date_of_birth": "dateOfBirth",
	"created_at":    "createdAt",
}

var searchFields = map[string]string{
	"first_name": "firstName",
	"last_name":  "lastName",
	"email":      "email",
	"phone":      "phone",
	"gender":     "gender",
}

type Service struct {
	*entity.Service[model.Patient, *model.Patient]
	users  *user.Service
	mailer email.Sender
	logger zerolog.Logger
}

func NewService(
	store entity.Store[model.Patient],
	validator *validation.Validator,
	users *user.Service,
	mailer email.Sender,
	logger zerolog.Logger,
) *Service {
	return &Service{
		Service: entity.NewService[model.Patient](store, validator, "patient", sortFields, searchFields, logger),
		users:   users,
		mailer:  mailer,
		logger:  logger.With().Str("service", "patient").Logger(),
	}
}

// ListActive returns non-deleted patients.
func (s *Service) ListActive(ctx context.Context) ([]model.Patient, error) {
	return s.List(ctx, bson.M{"isDeleted": false})
}

// Create provisions the login account first, then writes the patient record
// linked to it. A failed welcome email is logged, never surfaced.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	account, tempPassword, err := s.users.Provision(ctx, req.FirstName, req.LastName, req.Email, model.RolePatient)
	if err != nil {
		return nil, err
	}

	p := &model.Patient{
		UserID:           account.ID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		Address:          req.Address,
		MedicalHistory:   req.MedicalHistory,
		Allergies:        req.Allergies,
		EmergencyContact: req.EmergencyContact,
	}
	created, err := s.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, req.Email, req.FirstName, tempPassword); err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("failed to send welcome email")
	}
	return created, nil
}

// Update merges the request onto the stored patient and re-validates.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(p)
	return s.Replace(ctx, id, p)
}
