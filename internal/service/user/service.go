// Package user manages accounts: direct administration plus the provisioning
// path used when a doctor or patient record is created.
package user

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/entity"
	"github.com/yarachoice/clinic-api/internal/validation"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
	"github.com/yarachoice/clinic-api/pkg/security"
)

var sortFields = map[string]string{
	"email":      "email",
	"first_name": "firstName",
	"last_name":  "lastName",
	"role":       "role",
	"created_at": "createdAt",
}

var searchFields = map[string]string{
	"email":      "email",
	"first_name": "firstName",
	"last_name":  "lastName",
	"role":       "role",
}

type Service struct {
	*entity.Service[model.User, *model.User]
	hasher security.PasswordHasher
	// defaultPassword seeds provisioned accounts until the owner changes it.
	defaultPassword string
	logger          zerolog.Logger
}

func NewService(
	store entity.Store[model.User],
	validator *validation.Validator,
	hasher security.PasswordHasher,
	defaultPassword string,
	logger zerolog.Logger,
) *Service {
	return &Service{
		Service:         entity.NewService[model.User](store, validator, "user", sortFields, searchFields, logger),
		hasher:          hasher,
		defaultPassword: defaultPassword,
		logger:          logger.With().Str("service", "user").Logger(),
	}
}

// FindByEmail returns (nil, nil) when no account carries the address.
func (s *Service) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.FindOne(ctx, bson.M{"email": email})
}

// Create registers an account with an explicit password.
func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if err == security.ErrPasswordTooShort {
			return nil, apperrors.Validation(map[string]string{"password": "password is too short"})
		}
		return nil, apperrors.Internal(err)
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		IsActive:     true,
	}
	return s.Insert(ctx, u)
}

// Provision creates an account on behalf of a doctor or patient record,
// seeded with the configured default password. Returns the new user and the
// plaintext temporary password so the caller can link the id and notify the
// owner.
func (s *Service) Provision(ctx context.Context, firstName, lastName, email string, role model.Role) (*model.User, string, error) {
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(s.defaultPassword)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		IsActive:     true,
	}
	created, err := s.Insert(ctx, u)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("email", email).Str("role", string(role)).Msg("user provisioned")
	return created, s.defaultPassword, nil
}

// Update merges the request onto the stored user and re-validates.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateUserRequest) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email {
		if err := s.ensureEmailFree(ctx, *req.Email); err != nil {
			return nil, err
		}
	}

	req.Apply(u)
	return s.Replace(ctx, id, u)
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	taken, err := s.ExistsBy(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Validation(map[string]string{"email": "email is already registered"})
	}
	return nil
}
