package submission

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusInReview  Status = "In Review"
	StatusCompleted Status = "Completed"
	StatusRejected  Status = "Rejected"
)

type Feedback struct {
	Content    string    `json:"content,omitempty"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating,omitempty"`
	Date       time.Time `json:"date"`
}

type Submission struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ChallengeID uuid.UUID

	// ChallengeCreatedBy mirrors the owning employer of the referenced
	// challenge so employer-side queries never need a join. It is resolved
	// from the parent challenge inside the insert transaction and must equal
	// challenge.created_by at all times.
	ChallengeCreatedBy uuid.UUID

	Content        string
	GithubURL      string
	DeploymentURL  string
	Status         Status
	Score          *int
	Feedback       *Feedback
	CompletionTime *int
	SubmittedAt    time.Time
}
