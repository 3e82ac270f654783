package middleware

import (
	"errors"
	"strings"

	"skillproof/internal/pkg/token"
	"skillproof/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const CtxCallerKey = "caller"

type AuthMiddleware struct {
	tokens     token.Service
	cookieName string
}

func NewAuthMiddleware(tokens token.Service, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, cookieName: cookieName}
}

// Middleware resolves the session from the Authorization header or, failing
// that, the session cookie, and stores the authenticated caller in Locals.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			raw = strings.TrimSpace(c.Cookies(m.cookieName))
			if raw == "" {
				return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
			}
		}

		claims, err := m.tokens.Validate(raw)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxCallerKey, usecase.Caller{ID: claims.UserID, Role: claims.Role})

		return c.Next()
	}
}

// CallerFromCtx pulls the caller the auth middleware stored; ok is false on
// routes that skipped authentication.
func CallerFromCtx(c fiber.Ctx) (usecase.Caller, bool) {
	caller, ok := c.Locals(CtxCallerKey).(usecase.Caller)
	return caller, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", false
	}

	return tok, true
}
