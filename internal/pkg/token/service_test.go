package token

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/user"
)

func TestHMACService_IssueAndValidate(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)
	id := uuid.New()

	tok, err := svc.Issue(id, user.RoleEmployer)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	claims, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != id {
		t.Fatalf("expected user id %s, got %s", id, claims.UserID)
	}
	if claims.Role != user.RoleEmployer {
		t.Fatalf("expected employer role, got %s", claims.Role)
	}
}

func TestHMACService_Validate_Expired(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	tok, err := svc.Issue(uuid.New(), user.RoleCandidate)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Hour) }

	_, err = svc.Validate(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_Validate_WrongSecret(t *testing.T) {
	issuer := NewHMACService("secret-a", time.Hour)
	verifier := NewHMACService("secret-b", time.Hour)

	tok, err := issuer.Issue(uuid.New(), user.RoleCandidate)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err = verifier.Validate(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestHMACService_Validate_Garbage(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)
	_, err := svc.Validate("not-a-token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
