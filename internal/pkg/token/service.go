// Package token issues and validates the session token: an HS256 JWT carrying
// the caller's id and role. Clients treat it as opaque.
package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"skillproof/internal/domain/user"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   user.Role `json:"role"`

	jwtlib.RegisteredClaims
}

type Service interface {
	Issue(userID uuid.UUID, role user.Role) (string, error)
	Validate(tokenString string) (Claims, error)
}

type HMACService struct {
	secret   []byte
	lifetime time.Duration

	now func() time.Time
}

func NewHMACService(secret string, lifetime time.Duration) *HMACService {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &HMACService{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (s *HMACService) Issue(userID uuid.UUID, role user.Role) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	if !role.Valid() {
		role = user.RoleCandidate
	}

	now := s.now().UTC()
	c := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func (s *HMACService) Validate(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.UserID == uuid.Nil || !c.Role.Valid() {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}
