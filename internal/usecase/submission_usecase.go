package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/challenge"
	"skillproof/internal/domain/submission"
	"skillproof/internal/domain/user"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// Notifier pushes dashboard events out-of-band (the websocket hub in
// production). A nil notifier disables notifications.
type Notifier interface {
	SubmissionReceived(employerID uuid.UUID, challengeID uuid.UUID)
	InterviewScheduled(candidateID, employerID uuid.UUID)
}

type CreateSubmissionInput struct {
	ChallengeID    uuid.UUID
	Content        string
	GithubURL      string
	DeploymentURL  string
	CompletionTime *int
}

type ReviewSubmissionInput struct {
	Status   string
	Score    *int
	Feedback string
	Rating   int
}

type SubmissionUsecase interface {
	Create(ctx context.Context, caller Caller, in CreateSubmissionInput) (submission.Submission, error)
	Review(ctx context.Context, caller Caller, id uuid.UUID, in ReviewSubmissionInput) (submission.Submission, error)
}

type Submissions struct {
	repo     submission.Repository
	notifier Notifier

	now func() time.Time
}

func NewSubmissionUsecase(repo submission.Repository, notifier Notifier) *Submissions {
	return &Submissions{repo: repo, notifier: notifier, now: time.Now}
}

// Create records a candidate's submission. The denormalized challenge owner
// is resolved by the repository inside the insert transaction, so the caller
// can never supply it.
func (u *Submissions) Create(ctx context.Context, caller Caller, in CreateSubmissionInput) (submission.Submission, error) {
	if caller.Role != user.RoleCandidate {
		return submission.Submission{}, ErrForbidden
	}
	if in.ChallengeID == uuid.Nil || strings.TrimSpace(in.Content) == "" {
		return submission.Submission{}, ErrInvalidInput
	}

	s := submission.Submission{
		ID:             uuid.New(),
		UserID:         caller.ID,
		ChallengeID:    in.ChallengeID,
		Content:        in.Content,
		GithubURL:      strings.TrimSpace(in.GithubURL),
		DeploymentURL:  strings.TrimSpace(in.DeploymentURL),
		Status:         submission.StatusSubmitted,
		CompletionTime: in.CompletionTime,
		SubmittedAt:    u.now().UTC(),
	}

	created, err := u.repo.Create(ctx, s)
	if err != nil {
		if errors.Is(err, challenge.ErrNotFound) {
			return submission.Submission{}, ErrChallengeNotFound
		}
		return submission.Submission{}, ErrInternal
	}

	if u.notifier != nil {
		u.notifier.SubmissionReceived(created.ChallengeCreatedBy, created.ChallengeID)
	}

	return created, nil
}

// Review lets the owning employer move a submission through review and attach
// feedback and a score.
func (u *Submissions) Review(ctx context.Context, caller Caller, id uuid.UUID, in ReviewSubmissionInput) (submission.Submission, error) {
	if !caller.IsEmployer() {
		return submission.Submission{}, ErrForbidden
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, submission.ErrNotFound) {
			return submission.Submission{}, ErrSubmissionNotFound
		}
		return submission.Submission{}, ErrInternal
	}
	if existing.ChallengeCreatedBy != caller.ID {
		return submission.Submission{}, ErrForbidden
	}

	status, ok := parseReviewStatus(in.Status)
	if !ok {
		return submission.Submission{}, ErrInvalidInput
	}
	if in.Score != nil && (*in.Score < 0 || *in.Score > 100) {
		return submission.Submission{}, ErrInvalidInput
	}
	if in.Rating != 0 && (in.Rating < 1 || in.Rating > 5) {
		return submission.Submission{}, ErrInvalidInput
	}

	var fb *submission.Feedback
	if strings.TrimSpace(in.Feedback) != "" || in.Rating != 0 {
		fb = &submission.Feedback{
			Content:    strings.TrimSpace(in.Feedback),
			ReviewerID: caller.ID,
			Rating:     in.Rating,
			Date:       u.now().UTC(),
		}
	}

	updated, err := u.repo.SetReview(ctx, id, status, in.Score, fb)
	if err != nil {
		return submission.Submission{}, ErrInternal
	}
	return updated, nil
}

func parseReviewStatus(s string) (submission.Status, bool) {
	switch submission.Status(strings.TrimSpace(s)) {
	case submission.StatusInReview, submission.StatusCompleted, submission.StatusRejected:
		return submission.Status(strings.TrimSpace(s)), true
	default:
		return "", false
	}
}
