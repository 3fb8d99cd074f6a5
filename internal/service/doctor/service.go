// Package doctor manages practitioner records. Creating a doctor also
// provisions the login account and sends a welcome email.
package doctor

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
	"first_name":     "firstName",
	"last_name":      "lastName",
	"email":          "email",
	"specialization": "specialization",
	"created_at":     "createdAt",
}

var searchFields = map[string]string{
	"first_name":     "firstName",
	"last_name":      "lastName",
	"email":          "email",
	"specialization": "specialization",
	"license_number": "licenseNumber",
}

type Service struct {
	*entity.Service[model.Doctor, *model.Doctor]
	users  *user.Service
	mailer email.Sender
	logger zerolog.Logger
}

func NewService(
	store entity.Store[model.Doctor],
	validator *validation.Validator,
	users *user.Service,
	mailer email.Sender,
	logger zerolog.Logger,
) *Service {
	return &Service{
		Service: entity.NewService[model.Doctor](store, validator, "doctor", sortFields, searchFields, logger),
		users:   users,
		mailer:  mailer,
		logger:  logger.With().Str("service", "doctor").Logger(),
	}
}

// ListActive returns non-deleted doctors.
func (s *Service) ListActive(ctx context.Context) ([]model.Doctor, error) {
	return s.List(ctx, bson.M{"isDeleted": false})
}

// ListAvailable returns non-deleted doctors currently accepting appointments.
func (s *Service) ListAvailable(ctx context.Context) ([]model.Doctor, error) {
	return s.List(ctx, bson.M{"isDeleted": false, "isAvailable": true})
}

// Create provisions the login account first, then writes the doctor record
// linked to it. A failed welcome email is logged, never surfaced.
func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	account, tempPassword, err := s.users.Provision(ctx, req.FirstName, req.LastName, req.Email, model.RoleDoctor)
	if err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	d := &model.Doctor{
		UserID:         account.ID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		ImageURL:       req.ImageURL,
		IsAvailable:    available,
		WorkingHours:   req.WorkingHours,
	}
	created, err := s.Insert(ctx, d)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, req.Email, req.FirstName, tempPassword); err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("failed to send welcome email")
	}
	return created, nil
}

// Update merges the request onto the stored doctor and re-validates.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(d)
	return s.Replace(ctx, id, d)
}
