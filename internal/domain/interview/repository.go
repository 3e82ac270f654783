package interview

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("interview not found")

// UpcomingItem is an interview joined with the candidate display name for the
// employer-side schedule view.
type UpcomingItem struct {
	Interview
	CandidateName string
}

type Repository interface {
	Create(ctx context.Context, iv Interview) error
	GetByID(ctx context.Context, id uuid.UUID) (Interview, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (Interview, error)

	ListUpcomingByCandidate(ctx context.Context, candidateID uuid.UUID, after time.Time, statuses []Status, types []Type, limit int) ([]Interview, error)
	ListUpcomingByEmployer(ctx context.Context, employerID uuid.UUID, after time.Time, statuses []Status, limit int) ([]UpcomingItem, error)
	CountByEmployer(ctx context.Context, employerID uuid.UUID, status Status) (int, error)
}
