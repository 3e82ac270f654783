package handler

import (
	"errors"
	"strconv"

	"skillproof/internal/delivery/http/dto"
	"skillproof/internal/delivery/http/middleware"
	"skillproof/internal/pkg/response"
	"skillproof/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ChallengesHandler struct {
	uc usecase.ChallengeUsecase
}

type createChallengeRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	Skills             []string `json:"skills"`
	Difficulty         string   `json:"difficulty"`
	EstimatedTime      string   `json:"estimatedTime"`
	Instructions       string   `json:"instructions"`
	EvaluationCriteria []string `json:"evaluationCriteria"`
}

type rateChallengeRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func NewChallengesHandler(uc usecase.ChallengeUsecase) *ChallengesHandler {
	return &ChallengesHandler{uc: uc}
}

// List serves the active catalog to any signed-in user. Filters that do not
// parse are dropped rather than rejected, so a bad query string still returns
// the active listing.
func (h *ChallengesHandler) List(c fiber.Ctx) error {
	params := usecase.ChallengeListParams{
		Type:       c.Query("type"),
		Skill:      c.Query("skill"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
		Page:       parseQueryInt(c, "page", 0),
		Limit:      parseQueryInt(c, "limit", 0),
	}

	result, err := h.uc.List(c.Context(), params)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}

func (h *ChallengesHandler) Create(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createChallengeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), caller, usecase.CreateChallengeInput{
		Title:              req.Title,
		Description:        req.Description,
		Type:               req.Type,
		Skills:             req.Skills,
		Difficulty:         req.Difficulty,
		EstimatedTime:      req.EstimatedTime,
		Instructions:       req.Instructions,
		EvaluationCriteria: req.EvaluationCriteria,
	})
	if err != nil {
		return mapChallengeError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Challenge created successfully", dto.ChallengeFrom(created))
}

func (h *ChallengesHandler) Rate(c fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid challenge id", nil, err)
	}

	var req rateChallengeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.AddRating(c.Context(), caller, id, req.Rating, req.Comment)
	if err != nil {
		return mapChallengeError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ChallengeFrom(updated))
}

func mapChallengeError(err error) error {
	switch {
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

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
