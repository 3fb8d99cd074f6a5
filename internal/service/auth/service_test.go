package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/pkg/auth"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
	"github.com/yarachoice/clinic-api/pkg/security"
)

type fakeUsers struct {
	users []model.User
}

func (f *fakeUsers) FindOne(_ context.Context, filter bson.M) (*model.User, error) {
	for i := range f.users {
		u := &f.users[i]
		if email, ok := filter["email"]; ok && u.Email != email.(string) {
			continue
		}
		if id, ok := filter["_id"]; ok && u.ID != id.(primitive.ObjectID) {
			continue
		}
		return u, nil
	}
	return nil, nil
}

func (f *fakeUsers) SetFields(_ context.Context, filter bson.M, fields bson.M) (bool, error) {
	for i := range f.users {
		if id, ok := filter["_id"]; ok && f.users[i].ID != id.(primitive.ObjectID) {
			continue
		}
		if v, ok := fields["passwordHash"]; ok {
			f.users[i].PasswordHash = v.(string)
		}
		if v, ok := fields["lastLogin"]; ok {
			t := v.(time.Time)
			f.users[i].LastLogin = &t
		}
		return true, nil
	}
	return false, nil
}

type fakeCredentials struct {
	creds []model.AuthCredential
}

func (f *fakeCredentials) FindOne(_ context.Context, filter bson.M) (*model.AuthCredential, error) {
	for i := range f.creds {
		c := &f.creds[i]
		if tok, ok := filter["refreshToken"]; ok && c.RefreshToken != tok.(string) {
			continue
		}
		if uid, ok := filter["userId"]; ok && c.UserID != uid.(primitive.ObjectID) {
			continue
		}
		return c, nil
	}
	return nil, nil
}

func (f *fakeCredentials) InsertOne(_ context.Context, doc *model.AuthCredential) error {
	f.creds = append(f.creds, *doc)
	return nil
}

func (f *fakeCredentials) SetFields(_ context.Context, filter bson.M, fields bson.M) (bool, error) {
	for i := range f.creds {
		if uid, ok := filter["userId"]; ok && f.creds[i].UserID != uid.(primitive.ObjectID) {
			continue
		}
		if v, ok := fields["refreshToken"]; ok {
			f.creds[i].RefreshToken = v.(string)
		}
		if v, ok := fields["refreshTokenExpiryTime"]; ok {
			if v == nil {
				f.creds[i].RefreshTokenExpiryTime = nil
			} else {
				t := v.(time.Time)
				f.creds[i].RefreshTokenExpiryTime = &t
			}
		}
		return true, nil
	}
	return false, nil
}

const testPassword = "correct-horse-battery"

func newTestAuth(t *testing.T) (*Service, *fakeUsers, *fakeCredentials, *model.User) {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(testPassword)
	require.NoError(t, err)

	u := model.User{
		Email:        "doc@example.com",
		PasswordHash: hash,
		FirstName:    "Dana",
		LastName:     "Reed",
		Role:         model.RoleDoctor,
		IsActive:     true,
	}
	u.ID = primitive.NewObjectID()

	users := &fakeUsers{users: []model.User{u}}
	creds := &fakeCredentials{}
	tokens := auth.NewJWTService(auth.Config{
		Secret: "test-secret", Issuer: "clinic-api", Audience: "clinic-clients", AccessTTL: time.Minute,
	})
	svc := NewService(users, creds, hasher, tokens, time.Hour, zerolog.Nop())
	return svc, users, creds, &users.users[0]
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, users, creds, u := newTestAuth(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email: u.Email, Password: testPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, u.Email, resp.User.Email)

	require.Len(t, creds.creds, 1)
	assert.Equal(t, resp.RefreshToken, creds.creds[0].RefreshToken)
	assert.NotNil(t, users.users[0].LastLogin)
}

func TestLoginRejectionsAreUniform(t *testing.T) {
	svc, users, _, u := newTestAuth(t)

	_, wrongPass := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Password: "wrong"})
	_, unknown := svc.Login(context.Background(), &model.LoginRequest{Email: "nobody@example.com", Password: testPassword})

	users.users[0].IsActive = false
	_, inactive := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Password: testPassword})

	for _, err := range []error{wrongPass, unknown, inactive} {
		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
		assert.Equal(t, invalidCredentials, appErr.Message)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, creds, u := newTestAuth(t)

	first, err := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Password: testPassword})
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Nil(t, second.User)
	assert.Equal(t, second.RefreshToken, creds.creds[0].RefreshToken)

	// The first token was consumed by the rotation.
	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, _, creds, u := newTestAuth(t)

	first, err := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Password: testPassword})
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	creds.creds[0].RefreshTokenExpiryTime = &past

	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestRevokeClearsToken(t *testing.T) {
	svc, _, creds, u := newTestAuth(t)

	first, err := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), u.Email))
	assert.Empty(t, creds.creds[0].RefreshToken)

	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.True(t, apperrors.IsUnauthorized(err))

	err = svc.Revoke(context.Background(), "nobody@example.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestChangePassword(t *testing.T) {
	svc, _, creds, u := newTestAuth(t)
	userID := u.ID.Hex()

	first, err := svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Password: testPassword})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), userID, &model.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "brand-new-password",
	})
	assert.True(t, apperrors.IsUnauthorized(err))

	err = svc.ChangePassword(context.Background(), userID, &model.ChangePasswordRequest{
		CurrentPassword: testPassword, NewPassword: "brand-new-password",
	})
	require.NoError(t, err)

	// Old refresh token died with the old password.
	assert.Empty(t, creds.creds[0].RefreshToken)
	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: u.Email, Password: "brand-new-password"})
	assert.NoError(t, err)
}
