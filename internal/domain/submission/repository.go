package submission

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("submission not found")

// ListItem is a submission row joined with the challenge title and candidate
// name, which is all the dashboard activity feed needs.
type ListItem struct {
	Submission
	ChallengeTitle string
	CandidateName  string
}

type Repository interface {
	// Create inserts the submission, resolving ChallengeCreatedBy from the
	// parent challenge within one transaction and bumping the challenge
	// submissions counter. Returns challenge.ErrNotFound sentinel via the
	// usecase when the parent does not exist.
	Create(ctx context.Context, s Submission) (Submission, error)

	GetByID(ctx context.Context, id uuid.UUID) (Submission, error)
	SetReview(ctx context.Context, id uuid.UUID, status Status, score *int, fb *Feedback) (Submission, error)

	ListRecentByCandidate(ctx context.Context, userID uuid.UUID, limit int) ([]ListItem, error)
	ListRecentByEmployer(ctx context.Context, employerID uuid.UUID, limit int) ([]ListItem, error)

	CountByCandidate(ctx context.Context, userID uuid.UUID, statuses []Status) (int, error)
	CountByEmployer(ctx context.Context, employerID uuid.UUID, statuses []Status) (int, error)
}
