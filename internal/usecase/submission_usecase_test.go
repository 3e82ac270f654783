package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"skillproof/internal/domain/submission"
)

type mockSubmissionRepo struct {
	owner    uuid.UUID
	existing submission.Submission
	getErr   error

	created   *submission.Submission
	createErr error

	reviewed *submission.Submission
}

func (m *mockSubmissionRepo) Create(_ context.Context, s submission.Submission) (submission.Submission, error) {
	if m.createErr != nil {
		return submission.Submission{}, m.createErr
	}
	s.ChallengeCreatedBy = m.owner
	m.created = &s
	return s, nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, _ uuid.UUID) (submission.Submission, error) {
	if m.getErr != nil {
		return submission.Submission{}, m.getErr
	}
	return m.existing, nil
}

func (m *mockSubmissionRepo) SetReview(_ context.Context, id uuid.UUID, status submission.Status, score *int, fb *submission.Feedback) (submission.Submission, error) {
	s := m.existing
	s.Status = status
	s.Score = score
	s.Feedback = fb
	m.reviewed = &s
	return s, nil
}

func (m *mockSubmissionRepo) ListRecentByCandidate(_ context.Context, _ uuid.UUID, _ int) ([]submission.ListItem, error) {
	return nil, nil
}

func (m *mockSubmissionRepo) ListRecentByEmployer(_ context.Context, _ uuid.UUID, _ int) ([]submission.ListItem, error) {
	return nil, nil
}

func (m *mockSubmissionRepo) CountByCandidate(_ context.Context, _ uuid.UUID, _ []submission.Status) (int, error) {
	return 0, nil
}

func (m *mockSubmissionRepo) CountByEmployer(_ context.Context, _ uuid.UUID, _ []submission.Status) (int, error) {
	return 0, nil
}

type recordingNotifier struct {
	employerID  uuid.UUID
	challengeID uuid.UUID
	calls       int
}

func (n *recordingNotifier) SubmissionReceived(employerID, challengeID uuid.UUID) {
	n.employerID = employerID
	n.challengeID = challengeID
	n.calls++
}

func (n *recordingNotifier) InterviewScheduled(_, _ uuid.UUID) {}

func TestSubmissionCreate_ResolvesChallengeOwner(t *testing.T) {
	owner := uuid.New()
	repo := &mockSubmissionRepo{owner: owner}
	notifier := &recordingNotifier{}
	uc := NewSubmissionUsecase(repo, notifier)

	caller := Caller{ID: uuid.New(), Role: "candidate"}
	s, err := uc.Create(context.Background(), caller, CreateSubmissionInput{
		ChallengeID: uuid.New(),
		Content:     "my solution",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.ChallengeCreatedBy != owner {
		t.Fatalf("expected challenge owner %s, got %s", owner, s.ChallengeCreatedBy)
	}
	if s.UserID != caller.ID {
		t.Fatalf("submission must belong to the caller")
	}
	if notifier.calls != 1 || notifier.employerID != owner {
		t.Fatalf("expected one notification to the challenge owner, got %+v", notifier)
	}
}

func TestSubmissionCreate_EmployerForbidden(t *testing.T) {
	uc := NewSubmissionUsecase(&mockSubmissionRepo{}, nil)

	_, err := uc.Create(context.Background(), Caller{ID: uuid.New(), Role: "employer"}, CreateSubmissionInput{
		ChallengeID: uuid.New(),
		Content:     "x",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSubmissionReview_OnlyOwningEmployer(t *testing.T) {
	owner := uuid.New()
	repo := &mockSubmissionRepo{existing: submission.Submission{ID: uuid.New(), ChallengeCreatedBy: owner}}
	uc := NewSubmissionUsecase(repo, nil)

	_, err := uc.Review(context.Background(), Caller{ID: uuid.New(), Role: "employer"}, repo.existing.ID, ReviewSubmissionInput{Status: "Completed"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	score := 85
	s, err := uc.Review(context.Background(), Caller{ID: owner, Role: "employer"}, repo.existing.ID, ReviewSubmissionInput{
		Status:   "Completed",
		Score:    &score,
		Feedback: "well structured",
		Rating:   4,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Status != submission.StatusCompleted || s.Score == nil || *s.Score != 85 {
		t.Fatalf("unexpected reviewed submission: %+v", s)
	}
	if s.Feedback == nil || s.Feedback.ReviewerID != owner {
		t.Fatalf("feedback must carry the reviewer id")
	}
}

func TestSubmissionReview_InvalidStatus(t *testing.T) {
	owner := uuid.New()
	repo := &mockSubmissionRepo{existing: submission.Submission{ID: uuid.New(), ChallengeCreatedBy: owner}}
	uc := NewSubmissionUsecase(repo, nil)

	_, err := uc.Review(context.Background(), Caller{ID: owner, Role: "employer"}, repo.existing.ID, ReviewSubmissionInput{Status: "Draft"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
