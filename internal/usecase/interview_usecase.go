package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/interview"
	"skillproof/internal/domain/user"
)

var ErrInterviewNotFound = errors.New("interview not found")

type RequestInterviewInput struct {
	CounterpartID uuid.UUID
	Company       string
	Position      string
	Type          string
	Date          time.Time
	Duration      int
	MeetingURL    string
}

type InterviewUsecase interface {
	Request(ctx context.Context, caller Caller, in RequestInterviewInput) (interview.Interview, error)
	Schedule(ctx context.Context, caller Caller, id uuid.UUID) (interview.Interview, error)
}

type Interviews struct {
	repo     interview.Repository
	notifier Notifier

	now func() time.Time
}

func NewInterviewUsecase(repo interview.Repository, notifier Notifier) *Interviews {
	return &Interviews{repo: repo, notifier: notifier, now: time.Now}
}

// Request creates an interview in Requested state. Either party can initiate;
// the caller's side is always taken from the session and the other side from
// the payload.
func (u *Interviews) Request(ctx context.Context, caller Caller, in RequestInterviewInput) (interview.Interview, error) {
	typ, ok := interview.ParseType(strings.TrimSpace(in.Type))
	if !ok {
		return interview.Interview{}, ErrInvalidInput
	}
	if in.CounterpartID == uuid.Nil || in.Duration <= 0 || in.Date.IsZero() {
		return interview.Interview{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Company) == "" || strings.TrimSpace(in.Position) == "" {
		return interview.Interview{}, ErrInvalidInput
	}

	iv := interview.Interview{
		ID:         uuid.New(),
		Company:    strings.TrimSpace(in.Company),
		Position:   strings.TrimSpace(in.Position),
		Type:       typ,
		Date:       in.Date.UTC(),
		Duration:   in.Duration,
		Status:     interview.StatusRequested,
		MeetingURL: strings.TrimSpace(in.MeetingURL),
		CreatedAt:  u.now().UTC(),
	}

	switch caller.Role {
	case user.RoleCandidate:
		iv.CandidateID = caller.ID
		iv.EmployerID = in.CounterpartID
	case user.RoleEmployer:
		iv.EmployerID = caller.ID
		iv.CandidateID = in.CounterpartID
	default:
		return interview.Interview{}, ErrForbidden
	}

	if err := u.repo.Create(ctx, iv); err != nil {
		return interview.Interview{}, ErrInternal
	}
	return iv, nil
}

// Schedule confirms a requested interview. Only a party to the interview may
// confirm it.
func (u *Interviews) Schedule(ctx context.Context, caller Caller, id uuid.UUID) (interview.Interview, error) {
	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interview.ErrNotFound) {
			return interview.Interview{}, ErrInterviewNotFound
		}
		return interview.Interview{}, ErrInternal
	}
	if caller.ID != existing.CandidateID && caller.ID != existing.EmployerID {
		return interview.Interview{}, ErrForbidden
	}

	updated, err := u.repo.SetStatus(ctx, id, interview.StatusScheduled)
	if err != nil {
		return interview.Interview{}, ErrInternal
	}

	if u.notifier != nil {
		u.notifier.InterviewScheduled(updated.CandidateID, updated.EmployerID)
	}
	return updated, nil
}
