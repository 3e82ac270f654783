// Package auth implements credential registration and sign-in plus federated
// account provisioning. Secrets are bcrypt-hashed on the way in and stripped
// from every user returned from here.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillproof/internal/domain/user"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

// FieldError carries a per-field validation message; handlers surface these
// verbatim in the 400 payload.
type FieldError struct {
	Path    string
	Message string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation error"
	}
	return fmt.Sprintf("validation error: %s", e.Fields[0].Message)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Role     string
	Company  string
}

type LoginInput struct {
	Identifier string
	Password   string
}

// FederatedIdentity is the assertion we get back from the OAuth provider.
type FederatedIdentity struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

type Service struct {
	users user.Repository

	now func() time.Time
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, now: time.Now}
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Company = strings.TrimSpace(in.Company)

	role := user.RoleCandidate
	if v := strings.TrimSpace(in.Role); v != "" {
		parsed, ok := user.ParseRole(v)
		if !ok || parsed == user.RoleAdmin {
			return user.User{}, &ValidationError{Fields: []FieldError{{Path: "role", Message: "Invalid role"}}}
		}
		role = parsed
	}

	if verr := validateRegister(in, role); verr != nil {
		return user.User{}, verr
	}

	if taken, err := s.users.ExistsByEmail(ctx, in.Email); err != nil {
		return user.User{}, ErrInternal
	} else if taken {
		return user.User{}, ErrEmailTaken
	}
	if taken, err := s.users.ExistsByUsername(ctx, in.Username); err != nil {
		return user.User{}, ErrInternal
	} else if taken {
		return user.User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		Company:      in.Company,
		LastActive:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		// Racing registration can still hit the unique index; re-check so the
		// caller sees the duplicate, not a 500.
		if taken, exErr := s.users.ExistsByEmail(ctx, in.Email); exErr == nil && taken {
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, ErrInternal
	}

	return Sanitize(u), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	var u user.User
	var err error
	if strings.Contains(identifier, "@") {
		u, err = s.users.GetByEmail(ctx, normalizeEmail(identifier))
	} else {
		u, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	// Federated-only accounts have no stored secret and cannot sign in with
	// a password.
	if u.PasswordHash == "" {
		return user.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	_ = s.users.TouchLastActive(ctx, u.ID)

	return Sanitize(u), nil
}

// ProvisionFederated returns the account matching the asserted email,
// creating one on first sign-in. Newly provisioned accounts default to the
// candidate role.
func (s *Service) ProvisionFederated(ctx context.Context, id FederatedIdentity) (user.User, error) {
	email := normalizeEmail(id.Email)
	if email == "" || id.Sub == "" {
		return user.User{}, ErrInvalidCredentials
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		_ = s.users.TouchLastActive(ctx, existing.ID)
		return Sanitize(existing), nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrInternal
	}

	username, err := s.pickUsername(ctx, email, id.Sub)
	if err != nil {
		return user.User{}, ErrInternal
	}

	now := s.now().UTC()
	u := user.User{
		ID:         uuid.New(),
		Username:   username,
		Email:      email,
		Name:       strings.TrimSpace(id.Name),
		Image:      id.Picture,
		Role:       user.RoleCandidate,
		LastActive: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, ErrInternal
	}

	return Sanitize(u), nil
}

// pickUsername derives a username from the email local-part, falling back to
// one built from the last six characters of the provider subject id.
func (s *Service) pickUsername(ctx context.Context, email, sub string) (string, error) {
	candidates := []string{localPart(email), "user" + lastN(sub, 6)}
	for _, c := range candidates {
		if c == "" || !usernameRe.MatchString(c) {
			continue
		}
		taken, err := s.users.ExistsByUsername(ctx, c)
		if err != nil {
			return "", err
		}
		if !taken {
			return c, nil
		}
	}
	return "user" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8], nil
}

func validateRegister(in RegisterInput, role user.Role) *ValidationError {
	var fields []FieldError

	switch {
	case len(in.Username) < 3:
		fields = append(fields, FieldError{Path: "username", Message: "Username must be at least 3 characters"})
	case len(in.Username) > 20:
		fields = append(fields, FieldError{Path: "username", Message: "Username must be less than 20 characters"})
	case !usernameRe.MatchString(in.Username):
		fields = append(fields, FieldError{Path: "username", Message: "Username can only contain letters, numbers, and underscores"})
	}

	if !emailRe.MatchString(in.Email) {
		fields = append(fields, FieldError{Path: "email", Message: "Please enter a valid email address"})
	}

	switch {
	case len(in.Password) < 6:
		fields = append(fields, FieldError{Path: "password", Message: "Password must be at least 6 characters"})
	case len(in.Password) > 100:
		fields = append(fields, FieldError{Path: "password", Message: "Password must be less than 100 characters"})
	}

	if len(in.Name) > 100 {
		fields = append(fields, FieldError{Path: "name", Message: "Name must be less than 100 characters"})
	}

	if role == user.RoleEmployer && in.Company == "" {
		fields = append(fields, FieldError{Path: "company", Message: "Company is required for employer accounts"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Sanitize strips the stored secret before a user leaves the auth layer.
func Sanitize(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func localPart(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	return email[:at]
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
