package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yarachoice/clinic-api/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the access-token payload: identity, email, role and the
// permission bitmask resolved at issuance time.
type Claims struct {
	UserID      string           `json:"user_id"`
	Email       string           `json:"email"`
	Role        model.Role       `json:"role"`
	Permissions model.Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// JWTService mints and verifies access tokens. Access tokens are stateless
// and self-verifying; only refresh tokens need a store lookup.
type JWTService interface {
	GenerateAccessToken(user *model.User) (string, error)
	ValidateToken(token string) (*Claims, error)
}

type Config struct {
	Secret    string
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

type jwtService struct {
	cfg Config
	now func() time.Time
}

func NewJWTService(cfg Config) JWTService {
	return &jwtService{cfg: cfg, now: time.Now}
}

func (s *jwtService) GenerateAccessToken(user *model.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:      user.ID.Hex(),
		Email:       user.Email,
		Role:        user.Role,
		Permissions: model.PermissionsForRole(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *jwtService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer), jwt.WithAudience(s.cfg.Audience))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
