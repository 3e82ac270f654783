package handler

import (
	"errors"
	"time"

	"skillproof/internal/delivery/http/dto"
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/pkg/response"
	"skillproof/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type InterviewsHandler struct {
	uc usecase.InterviewUsecase
}

type requestInterviewRequest struct {
	CounterpartID uuid.UUID `json:"counterpartId"`
	Company       string    `json:"company"`
	Position      string    `json:"position"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	Duration      int       `json:"duration"`
	MeetingURL    string    `json:"meetingUrl"`
}

func NewInterviewsHandler(uc usecase.InterviewUsecase) *InterviewsHandler {
	return &InterviewsHandler{uc: uc}
}

func (h *InterviewsHandler) Request(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req requestInterviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Request(c.Context(), caller, usecase.RequestInterviewInput{
		CounterpartID: req.CounterpartID,
		Company:       req.Company,
		Position:      req.Position,
		Type:          req.Type,
		Date:          req.Date,
		Duration:      req.Duration,
		MeetingURL:    req.MeetingURL,
	})
	if err != nil {
		return mapInterviewError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Interview requested", dto.InterviewFrom(created))
}

func (h *InterviewsHandler) Schedule(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid interview id", nil, err)
	}

	updated, err := h.uc.Schedule(c.Context(), caller, id)
	if err != nil {
		return mapInterviewError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.InterviewFrom(updated))
}

func mapInterviewError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInterviewNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Interview not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
