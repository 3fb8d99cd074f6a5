// Package auth implements login, refresh-token rotation, revocation and
// password changes. Access tokens are stateless JWTs; the only server-side
// session state is the single current refresh token per user.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/pkg/auth"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
	"github.com/yarachoice/clinic-api/pkg/security"
)

const refreshTokenBytes = 64

// invalidCredentials is deliberately identical for unknown email, wrong
// password and inactive account.
const invalidCredentials = "invalid email or password"

type userStore interface {
	FindOne(ctx context.Context, filter bson.M) (*model.User, error)
	SetFields(ctx context.Context, filter bson.M, fields bson.M) (bool, error)
}

type credentialStore interface {
	FindOne(ctx context.Context, filter bson.M) (*model.AuthCredential, error)
	InsertOne(ctx context.Context, doc *model.AuthCredential) error
	SetFields(ctx context.Context, filter bson.M, fields bson.M) (bool, error)
}

type Service struct {
	users       userStore
	credentials credentialStore
	hasher      security.PasswordHasher
	tokens      auth.JWTService
	refreshTTL  time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

func NewService(
	users userStore,
	credentials credentialStore,
	hasher security.PasswordHasher,
	tokens auth.JWTService,
	refreshTTL time.Duration,
	logger zerolog.Logger,
) *Service {
	return &Service{
		users:       users,
		credentials: credentials,
		hasher:      hasher,
		tokens:      tokens,
		refreshTTL:  refreshTTL,
		logger:      logger.With().Str("service", "auth").Logger(),
		now:         time.Now,
	}
}

// Login verifies the password and issues a fresh token pair, rotating the
// stored refresh token.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	u, err := s.users.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if u == nil || u.IsDeleted || !u.IsActive {
		s.logger.Warn().Str("email", req.Email).Msg("login rejected")
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	if !s.hasher.Compare(u.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", req.Email).Msg("login rejected")
		return nil, apperrors.Unauthorized(invalidCredentials)
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if _, err := s.users.SetFields(ctx, bson.M{"_id": u.ID}, bson.M{"lastLogin": now}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record last login")
	}

	pair.User = u
	s.logger.Info().Str("email", req.Email).Msg("login succeeded")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. Each token is
// single use: rotation invalidates it whether or not the caller ever uses the
// replacement.
func (s *Service) Refresh(ctx context.Context, req *model.RefreshTokenRequest) (*model.TokenResponse, error) {
	cred, err := s.credentials.FindOne(ctx, bson.M{"refreshToken": req.RefreshToken})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if cred == nil || cred.RefreshToken == "" {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if cred.RefreshTokenExpiryTime == nil || s.now().After(*cred.RefreshTokenExpiryTime) {
		return nil, apperrors.Unauthorized("refresh token expired")
	}

	u, err := s.users.FindOne(ctx, bson.M{"_id": cred.UserID})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if u == nil || u.IsDeleted || !u.IsActive {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	return s.issueTokens(ctx, u)
}

// Revoke clears the user's refresh token, making the session non-refreshable
// until the next login.
func (s *Service) Revoke(ctx context.Context, email string) error {
	u, err := s.users.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		return apperrors.Internal(err)
	}
	if u == nil {
		return apperrors.NotFound("user")
	}

	_, err = s.credentials.SetFields(ctx, bson.M{"userId": u.ID},
		bson.M{"refreshToken": "", "refreshTokenExpiryTime": nil})
	if err != nil {
		return apperrors.Internal(err)
	}

	s.logger.Info().Str("email", email).Msg("refresh token revoked")
	return nil
}

// ChangePassword verifies the current password before storing the new hash,
// then revokes the refresh token so stolen sessions die with the old secret.
// userID comes from the caller's access token, never the request body.
func (s *Service) ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.Unauthorized(invalidCredentials)
	}

	u, err := s.users.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperrors.Internal(err)
	}
	if u == nil {
		return apperrors.Unauthorized(invalidCredentials)
	}
	if !s.hasher.Compare(u.PasswordHash, req.CurrentPassword) {
		return apperrors.Unauthorized(invalidCredentials)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if err == security.ErrPasswordTooShort {
			return apperrors.Validation(map[string]string{"new_password": "password is too short"})
		}
		return apperrors.Internal(err)
	}

	if _, err := s.users.SetFields(ctx, bson.M{"_id": u.ID},
		bson.M{"passwordHash": hash, "updatedAt": s.now().UTC()}); err != nil {
		return apperrors.Internal(err)
	}

	if err := s.Revoke(ctx, u.Email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke refresh token after password change")
	}

	s.logger.Info().Str("email", u.Email).Msg("password changed")
	return nil
}

func (s *Service) issueTokens(ctx context.Context, u *model.User) (*model.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("sign access token: %w", err))
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	expiry := s.now().UTC().Add(s.refreshTTL)

	cred, err := s.credentials.FindOne(ctx, bson.M{"userId": u.ID})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if cred == nil {
		err = s.credentials.InsertOne(ctx, &model.AuthCredential{
			UserID:                 u.ID,
			RefreshToken:           refresh,
			RefreshTokenExpiryTime: &expiry,
		})
	} else {
		_, err = s.credentials.SetFields(ctx, bson.M{"userId": u.ID},
			bson.M{"refreshToken": refresh, "refreshTokenExpiryTime": expiry})
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
