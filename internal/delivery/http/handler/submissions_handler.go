package handler

import (
	"errors"

	"skillproof/internal/delivery/http/dto"
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/pkg/response"
	"skillproof/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SubmissionsHandler struct {
	uc usecase.SubmissionUsecase
}

type createSubmissionRequest struct {
	ChallengeID    uuid.UUID `json:"challengeId"`
	Content        string    `json:"content"`
	GithubURL      string    `json:"githubUrl"`
	DeploymentURL  string    `json:"deploymentUrl"`
	CompletionTime *int      `json:"completionTime"`
}

type reviewSubmissionRequest struct {
	Status   string `json:"status"`
	Score    *int   `json:"score"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

func NewSubmissionsHandler(uc usecase.SubmissionUsecase) *SubmissionsHandler {
	return &SubmissionsHandler{uc: uc}
}

func (h *SubmissionsHandler) Create(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createSubmissionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), caller, usecase.CreateSubmissionInput{
		ChallengeID:    req.ChallengeID,
		Content:        req.Content,
		GithubURL:      req.GithubURL,
		DeploymentURL:  req.DeploymentURL,
		CompletionTime: req.CompletionTime,
	})
	if err != nil {
		return mapSubmissionError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Submission received", dto.SubmissionFrom(created))
}

func (h *SubmissionsHandler) Review(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid submission id", nil, err)
	}

	var req reviewSubmissionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.Review(c.Context(), caller, id, usecase.ReviewSubmissionInput{
		Status:   req.Status,
		Score:    req.Score,
		Feedback: req.Feedback,
		Rating:   req.Rating,
	})
	if err != nil {
		return mapSubmissionError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SubmissionFrom(updated))
}

func mapSubmissionError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrSubmissionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Submission not found", nil, err)
	case errors.Is(err, usecase.ErrChallengeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Challenge not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
