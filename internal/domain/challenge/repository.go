package challenge

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("challenge not found")

// ListFilter is the fully resolved filter for the challenge listing.
// Status is always forced to Active by the usecase layer; the repository
// applies whatever it is given.
type ListFilter struct {
	Type       Type
	Skill      string
	Difficulty Difficulty
	Search     string
	Status     Status
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, c Challenge) error
	GetByID(ctx context.Context, id uuid.UUID) (Challenge, error)
	List(ctx context.Context, f ListFilter) ([]Challenge, int, error)
	CountByCreator(ctx context.Context, createdBy uuid.UUID, status Status) (int, error)
	ListActive(ctx context.Context, limit int) ([]Challenge, error)

	// AppendRating adds one rating and recomputes average_rating in the same
	// transaction, returning the updated challenge.
	AppendRating(ctx context.Context, id uuid.UUID, r Rating) (Challenge, error)
}
