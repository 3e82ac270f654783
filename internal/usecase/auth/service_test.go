package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillproof/internal/domain/user"
)

type mockUserRepo struct {
	byEmail    map[string]user.User
	byUsername map[string]user.User
	created    []user.User
	createErr  error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail:    map[string]user.User{},
		byUsername: map[string]user.User{},
	}
}

func (m *mockUserRepo) add(u user.User) {
	m.byEmail[strings.ToLower(u.Email)] = u
	m.byUsername[u.Username] = u
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, u)
	m.add(u)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := m.byUsername[username]
	return ok, nil
}

func (m *mockUserRepo) TouchLastActive(_ context.Context, _ uuid.UUID) error { return nil }

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alex_dev",
		Email:    "Alex@Example.com",
		Password: "secret1",
		Name:     "Alex",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Email != "alex@example.com" {
		t.Fatalf("expected lowercased email, got %q", u.Email)
	}
	if u.Role != user.RoleCandidate {
		t.Fatalf("expected candidate default role, got %s", u.Role)
	}
	if u.PasswordHash != "" {
		t.Fatalf("sanitized user must not carry a password hash")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(repo.created))
	}
	if repo.created[0].PasswordHash == "" || repo.created[0].PasswordHash == "secret1" {
		t.Fatalf("stored secret must be hashed")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(user.User{ID: uuid.New(), Username: "taken", Email: "alex@example.com"})
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alex_dev",
		Email:    "ALEX@example.com",
		Password: "secret1",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("duplicate registration must not create a record")
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	svc := NewService(newMockUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ab",
		Email:    "not-an-email",
		Password: "123",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %+v", len(verr.Fields), verr.Fields)
	}
}

func TestRegister_EmployerRequiresCompany(t *testing.T) {
	svc := NewService(newMockUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "acme_hr",
		Email:    "hr@acme.com",
		Password: "secret1",
		Role:     "employer",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields[0].Path != "company" {
		t.Fatalf("expected company field error, got %+v", verr.Fields)
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(user.User{
		ID:           uuid.New(),
		Username:     "alex_dev",
		Email:        "alex@example.com",
		PasswordHash: hashOf(t, "secret1"),
		Role:         user.RoleCandidate,
	})
	svc := NewService(repo)

	u, err := svc.Login(context.Background(), LoginInput{Identifier: "alex@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Username != "alex_dev" {
		t.Fatalf("unexpected user %q", u.Username)
	}
	if u.PasswordHash != "" {
		t.Fatalf("sanitized user must not carry a password hash")
	}
}

func TestLogin_ByUsername(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(user.User{
		ID:           uuid.New(),
		Username:     "alex_dev",
		Email:        "alex@example.com",
		PasswordHash: hashOf(t, "secret1"),
	})
	svc := NewService(repo)

	if _, err := svc.Login(context.Background(), LoginInput{Identifier: "alex_dev", Password: "secret1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(user.User{
		ID:           uuid.New(),
		Username:     "alex_dev",
		Email:        "alex@example.com",
		PasswordHash: hashOf(t, "secret1"),
	})
	svc := NewService(repo)

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "alex@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewService(newMockUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "nobody@example.com", Password: "secret1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestProvisionFederated_NewAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	u, err := svc.ProvisionFederated(context.Background(), FederatedIdentity{
		Sub:   "109876543210123456789",
		Email: "jordan@example.com",
		Name:  "Jordan",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Username != "jordan" {
		t.Fatalf("expected username from email local-part, got %q", u.Username)
	}
	if u.Role != user.RoleCandidate {
		t.Fatalf("expected candidate default role, got %s", u.Role)
	}
}

func TestProvisionFederated_UsernameFallback(t *testing.T) {
	repo := newMockUserRepo()
	repo.add(user.User{ID: uuid.New(), Username: "jordan", Email: "other@example.com"})
	svc := NewService(repo)

	u, err := svc.ProvisionFederated(context.Background(), FederatedIdentity{
		Sub:   "109876543210123456789",
		Email: "jordan@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Username != "user456789" {
		t.Fatalf("expected fallback username from subject id, got %q", u.Username)
	}
}

func TestProvisionFederated_ExistingAccount(t *testing.T) {
	repo := newMockUserRepo()
	existing := user.User{ID: uuid.New(), Username: "jordan", Email: "jordan@example.com", Role: user.RoleEmployer, Company: "Acme"}
	repo.add(existing)
	svc := NewService(repo)

	u, err := svc.ProvisionFederated(context.Background(), FederatedIdentity{
		Sub:   "109876543210123456789",
		Email: "JORDAN@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.ID != existing.ID {
		t.Fatalf("expected existing account, got a new one")
	}
	if u.Role != user.RoleEmployer {
		t.Fatalf("provisioning must not reset the stored role")
	}
	if len(repo.created) != 0 {
		t.Fatalf("existing account must not be recreated")
	}
}
