package handler

import (
	"errors"
	"time"

	"skillproof/internal/config"
	"skillproof/internal/delivery/http/dto"
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/pkg/oauth"
	"skillproof/internal/pkg/response"
	"skillproof/internal/usecase"
	ucauth "skillproof/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	uc     usecase.AuthUsecase
	google *oauth.GoogleProvider
	auth   config.AuthConfig
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Company  string `json:"company"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase, google *oauth.GoogleProvider, auth config.AuthConfig) *AuthHandler {
	return &AuthHandler{uc: uc, google: google, auth: auth}
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Company:  req.Company,
	})
	if err != nil {
		return mapAuthError(err)
	}

	return response.Success(c, fiber.StatusCreated, "User created successfully", dto.UserFrom(usr))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, tok, err := h.uc.Login(c.Context(), ucauth.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return mapAuthError(err)
	}

	h.setSessionCookie(c, tok)

	data := map[string]any{
		"user":  dto.UserFrom(usr),
		"token": tok,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.auth.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

// GoogleRedirect starts the OAuth flow, pinning a one-shot state value in a
// short-lived cookie.
func (h *AuthHandler) GoogleRedirect(c fiber.Ctx) error {
	if h.google == nil || !h.google.Enabled() {
		return middleware.NewAppError(fiber.StatusNotFound, "Google sign-in is not configured", nil, nil)
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   h.auth.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect().To(h.google.AuthURL(state))
}

func (h *AuthHandler) GoogleCallback(c fiber.Ctx) error {
	if h.google == nil || !h.google.Enabled() {
		return middleware.NewAppError(fiber.StatusNotFound, "Google sign-in is not configured", nil, nil)
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid OAuth state", nil, nil)
	}
	c.Cookie(&fiber.Cookie{
		Name:    oauthStateCookie,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
	})

	code := c.Query("code")
	if code == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing authorization code", nil, nil)
	}

	profile, err := h.google.Exchange(c.Context(), code)
	if err != nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Google sign-in failed", nil, err)
	}

	_, tok, err := h.uc.FederatedLogin(c.Context(), ucauth.FederatedIdentity{
		Sub:     profile.Sub,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
	})
	if err != nil {
		return mapAuthError(err)
	}

	h.setSessionCookie(c, tok)
	return c.Redirect().To("/dashboard")
}

func (h *AuthHandler) setSessionCookie(c fiber.Ctx, tok string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.auth.CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(h.auth.SessionLifetime),
		HTTPOnly: true,
		Secure:   h.auth.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func mapAuthError(err error) error {
	if err == nil {
		return nil
	}

	var vErr *ucauth.ValidationError
	if errors.As(err, &vErr) {
		fields := make([]response.FieldError, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			fields = append(fields, response.FieldError{Path: f.Path, Message: f.Message})
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", fields, err)
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusBadRequest, "Email already in use", nil, err)
	case errors.Is(err, ucauth.ErrUsernameTaken):
		return middleware.NewAppError(fiber.StatusBadRequest, "Username already taken", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
