package handler

import (
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/pkg/response"
	"skillproof/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DashboardHandler struct {
	uc usecase.DashboardUsecase
}

func NewDashboardHandler(uc usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Stats honors an explicit userType query as a view switch, but the identity
// the rows are scoped to always comes from the session.
func (h *DashboardHandler) Stats(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	stats, err := h.uc.Stats(c.Context(), caller, c.Query("userType"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, stats)
}

func (h *DashboardHandler) Activity(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entries, err := h.uc.Activity(c.Context(), caller, c.Query("userType"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, entries)
}

func (h *DashboardHandler) Schedule(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entries, err := h.uc.Schedule(c.Context(), caller)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, entries)
}
