package dto

import (
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/challenge"
)

type ChallengeResponse struct {
	ID                 uuid.UUID            `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Type               challenge.Type       `json:"type"`
	Skills             []string             `json:"skills"`
	Difficulty         challenge.Difficulty `json:"difficulty"`
	EstimatedTime      string               `json:"estimatedTime"`
	Instructions       string               `json:"instructions,omitempty"`
	EvaluationCriteria []string             `json:"evaluationCriteria,omitempty"`
	Status             challenge.Status     `json:"status"`
	Submissions        int                  `json:"submissions"`
	Completions        int                  `json:"completions"`
	AverageRating      float64              `json:"averageRating"`
	CreatedAt          time.Time            `json:"createdAt"`
}

func ChallengeFrom(c challenge.Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        c.Description,
		Type:               c.Type,
		Skills:             c.Skills,
		Difficulty:         c.Difficulty,
		EstimatedTime:      c.EstimatedTime,
		Instructions:       c.Instructions,
		EvaluationCriteria: c.EvaluationCriteria,
		Status:             c.Status,
		Submissions:        c.Submissions,
		Completions:        c.Completions,
		AverageRating:      c.AverageRating,
		CreatedAt:          c.CreatedAt,
	}
}
