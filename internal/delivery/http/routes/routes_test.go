package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"skillproof/internal/delivery/http/handler"
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/domain/challenge"
	"skillproof/internal/domain/user"
	"skillproof/internal/pkg/token"
	"skillproof/internal/usecase"
)

type stubChallengeUsecase struct {
	lists int
}

func (s *stubChallengeUsecase) List(_ context.Context, _ usecase.ChallengeListParams) (usecase.ChallengeListResult, error) {
	s.lists++
	return usecase.ChallengeListResult{}, nil
}

func (s *stubChallengeUsecase) Create(_ context.Context, _ usecase.Caller, _ usecase.CreateChallengeInput) (challenge.Challenge, error) {
	return challenge.Challenge{}, usecase.ErrForbidden
}

func (s *stubChallengeUsecase) AddRating(_ context.Context, _ usecase.Caller, _ uuid.UUID, _ int, _ string) (challenge.Challenge, error) {
	return challenge.Challenge{}, usecase.ErrForbidden
}

const testCookieName = "skillproof_session"

func newTestApp(t *testing.T) (*fiber.App, *stubChallengeUsecase, *token.HMACService) {
	t.Helper()

	tokens := token.NewHMACService("test-secret", time.Hour)
	uc := &stubChallengeUsecase{}

	registry := &Registry{
		Challenges: handler.NewChallengesHandler(uc),
		AuthMw:     middleware.NewAuthMiddleware(tokens, testCookieName),
	}

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())
	registry.Register(app)

	return app, uc, tokens
}

func TestChallengeListing_RequiresSession(t *testing.T) {
	app, uc, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/challenges", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", res.StatusCode)
	}
	if uc.lists != 0 {
		t.Fatalf("listing must not run for unauthenticated callers")
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Message != "Unauthorized" {
		t.Fatalf("expected Unauthorized message, got %q", body.Message)
	}
}

func TestChallengeListing_AcceptsBearerSession(t *testing.T) {
	app, uc, tokens := newTestApp(t)

	tok, err := tokens.Issue(uuid.New(), user.RoleCandidate)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/challenges", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with a bearer session, got %d", res.StatusCode)
	}
	if uc.lists != 1 {
		t.Fatalf("expected one listing call, got %d", uc.lists)
	}
}

func TestChallengeListing_AcceptsCookieSession(t *testing.T) {
	app, uc, tokens := newTestApp(t)

	tok, err := tokens.Issue(uuid.New(), user.RoleCandidate)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/challenges", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with a cookie session, got %d", res.StatusCode)
	}
	if uc.lists != 1 {
		t.Fatalf("expected one listing call, got %d", uc.lists)
	}
}
