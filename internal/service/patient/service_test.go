package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/user"
	"github.com/yarachoice/clinic-api/internal/validation"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
	"github.com/yarachoice/clinic-api/pkg/security"
)

// memStore is a minimal in-memory store; match interprets the filter shapes
// these tests exercise.
type memStore[T any] struct {
	docs  []T
	match func(T, bson.M) bool
}

func (m *memStore[T]) matching(filter bson.M) []T {
	var out []T
	for _, d := range m.docs {
		if m.match(d, filter) {
			out = append(out, d)
		}
	}
	return out
}

func (m *memStore[T]) FindOne(_ context.Context, filter bson.M) (*T, error) {
	found := m.matching(filter)
	if len(found) == 0 {
		return nil, nil
	}
	doc := found[0]
	return &doc, nil
}

func (m *memStore[T]) FindAll(_ context.Context, filter bson.M, _ bson.D) ([]T, error) {
	return m.matching(filter), nil
}

func (m *memStore[T]) FindPage(_ context.Context, filter bson.M, _ bson.D, _, _ int64) ([]T, error) {
	return m.matching(filter), nil
}

func (m *memStore[T]) Count(_ context.Context, filter bson.M) (int64, error) {
	return int64(len(m.matching(filter))), nil
}

func (m *memStore[T]) InsertOne(_ context.Context, doc *T) error {
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *memStore[T]) ReplaceByID(_ context.Context, id primitive.ObjectID, doc *T) (bool, error) {
	for i, d := range m.docs {
		if m.match(d, bson.M{"_id": id}) {
			m.docs[i] = *doc
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore[T]) SetFields(_ context.Context, _ bson.M, _ bson.M) (bool, error) {
	return false, nil
}

func (m *memStore[T]) DeleteByID(_ context.Context, _ primitive.ObjectID) (bool, error) {
	return false, nil
}

func (m *memStore[T]) Exists(_ context.Context, filter bson.M) (bool, error) {
	return len(m.matching(filter)) > 0, nil
}

type fakeMailer struct {
	sent     []string
	password string
	fail     bool
}

func (f *fakeMailer) SendWelcomeEmail(_ context.Context, to, _, tempPassword string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, to)
	f.password = tempPassword
	return nil
}

const defaultPassword = "Welcome123!"

func newFixture() (*Service, *memStore[model.User], *memStore[model.Patient], *fakeMailer) {
	users := &memStore[model.User]{match: func(u model.User, filter bson.M) bool {
		for k, v := range filter {
			switch k {
			case "email":
				if u.Email != v.(string) {
					return false
				}
			case "_id":
				if u.ID != v.(primitive.ObjectID) {
					return false
				}
			default:
				return false
			}
		}
		return true
	}}
	patients := &memStore[model.Patient]{match: func(p model.Patient, filter bson.M) bool {
		for k, v := range filter {
			switch k {
			case "_id":
				if p.ID != v.(primitive.ObjectID) {
					return false
				}
			case "isDeleted":
				if p.IsDeleted != v.(bool) {
					return false
				}
			default:
				return false
			}
		}
		return true
	}}

	validator := validation.New()
	hasher := security.NewBcryptHasher(4)
	mailer := &fakeMailer{}
	userSvc := user.NewService(users, validator, hasher, defaultPassword, zerolog.Nop())
	svc := NewService(patients, validator, userSvc, mailer, zerolog.Nop())
	return svc, users, patients, mailer
}

func validRequest() *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		FirstName:   "Lina",
		LastName:    "Haddad",
		Email:       "lina@example.com",
		Phone:       "+96170123456",
		DateOfBirth: time.Date(1992, 4, 10, 0, 0, 0, 0, time.UTC),
		Gender:      "female",
		Address: model.Address{
			Street: "12 Main St", City: "Beirut", PostalCode: "1100", Country: "LB",
		},
		EmergencyContact: "+96170765432",
	}
}

func TestCreateProvisionsLinkedAccount(t *testing.T) {
	svc, users, patients, mailer := newFixture()

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, users.docs, 1)
	account := users.docs[0]
	assert.Equal(t, model.RolePatient, account.Role)
	assert.Equal(t, "lina@example.com", account.Email)
	assert.True(t, account.IsActive)
	assert.NotEqual(t, defaultPassword, account.PasswordHash)

	require.Len(t, patients.docs, 1)
	assert.Equal(t, account.ID, created.UserID)
	assert.NotEqual(t, account.ID, created.ID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "lina@example.com", mailer.sent[0])
	assert.Equal(t, defaultPassword, mailer.password)
}

func TestCreateDuplicateEmailWritesNothing(t *testing.T) {
	svc, users, patients, _ := newFixture()

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	appErr, _ := apperrors.As(err)
	assert.Contains(t, appErr.Fields, "email")
	assert.Len(t, users.docs, 1)
	assert.Len(t, patients.docs, 1)
}

func TestCreateSucceedsWhenEmailDeliveryFails(t *testing.T) {
	svc, _, patients, mailer := newFixture()
	mailer.fail = true

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, patients.docs, 1)
	assert.Empty(t, mailer.sent)
}

func TestUpdateMergesPartialRequest(t *testing.T) {
	svc, _, patients, _ := newFixture()

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	newPhone := "+96170999999"
	updated, err := svc.Update(context.Background(), created.ID.Hex(), &model.UpdatePatientRequest{Phone: &newPhone})
	require.NoError(t, err)

	// Only the supplied field changed.
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, "Lina", updated.FirstName)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.Equal(t, newPhone, patients.docs[0].Phone)
}
