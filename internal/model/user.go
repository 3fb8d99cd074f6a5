package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
)

// PresenceStatus tracks chat presence, maintained by the hub.
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

type User struct {
	Base         `bson:",inline"`
	Email        string         `bson:"email" json:"email" validate:"required,email"`
	PasswordHash string         `bson:"passwordHash" json:"-" validate:"required"`
	FirstName    string         `bson:"firstName" json:"first_name" validate:"required,max=50"`
	LastName     string         `bson:"lastName" json:"last_name" validate:"required,max=50"`
	Role         Role           `bson:"role" json:"role" validate:"required,oneof=Admin Doctor Patient"`
	IsActive     bool           `bson:"isActive" json:"is_active"`
	LastLogin    *time.Time     `bson:"lastLogin,omitempty" json:"last_login,omitempty"`
	Status       PresenceStatus `bson:"status,omitempty" json:"status,omitempty"`
	LastSeen     *time.Time     `bson:"lastSeen,omitempty" json:"last_seen,omitempty"`
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      Role   `json:"role" binding:"required,oneof=Admin Doctor Patient"`
}

// UpdateUserRequest merges onto the stored user: nil fields keep their prior
// values, so optional fields cannot be cleared through update.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Apply(u *User) {
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
}

// AuthCredential is the single piece of server-side session state: the
// current refresh token for a user and its expiry. Rotated on every login and
// refresh, cleared on revoke.
type AuthCredential struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                 primitive.ObjectID `bson:"userId" json:"user_id"`
	RefreshToken           string             `bson:"refreshToken" json:"-"`
	RefreshTokenExpiryTime *time.Time         `bson:"refreshTokenExpiryTime,omitempty" json:"-"`
}
