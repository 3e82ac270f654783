package dto

import (
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/submission"
)

type SubmissionResponse struct {
	ID             uuid.UUID         `json:"id"`
	ChallengeID    uuid.UUID         `json:"challengeId"`
	Content        string            `json:"content"`
	GithubURL      string            `json:"githubUrl,omitempty"`
	DeploymentURL  string            `json:"deploymentUrl,omitempty"`
	Status         submission.Status `json:"status"`
	Score          *int              `json:"score,omitempty"`
	Feedback       *FeedbackResponse `json:"feedback,omitempty"`
	CompletionTime *int              `json:"completionTime,omitempty"`
	SubmittedAt    time.Time         `json:"submittedAt"`
}

type FeedbackResponse struct {
	Content string    `json:"content,omitempty"`
	Rating  int       `json:"rating,omitempty"`
	Date    time.Time `json:"date"`
}

func SubmissionFrom(s submission.Submission) SubmissionResponse {
	out := SubmissionResponse{
		ID:             s.ID,
		ChallengeID:    s.ChallengeID,
		Content:        s.Content,
		GithubURL:      s.GithubURL,
		DeploymentURL:  s.DeploymentURL,
		Status:         s.Status,
		Score:          s.Score,
		CompletionTime: s.CompletionTime,
		SubmittedAt:    s.SubmittedAt,
	}
	if s.Feedback != nil {
		out.Feedback = &FeedbackResponse{
			Content: s.Feedback.Content,
			Rating:  s.Feedback.Rating,
			Date:    s.Feedback.Date,
		}
	}
	return out
}
