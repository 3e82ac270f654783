package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/challenge"
	"skillproof/internal/domain/interview"
	"skillproof/internal/domain/submission"
	"skillproof/internal/domain/user"
)

type mockUserReader struct {
	u   user.User
	err error
}

func (m mockUserReader) Create(context.Context, user.User) error { return nil }
func (m mockUserReader) GetByID(context.Context, uuid.UUID) (user.User, error) {
	return m.u, m.err
}
func (m mockUserReader) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (m mockUserReader) GetByUsername(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (m mockUserReader) ExistsByEmail(context.Context, string) (bool, error)    { return false, nil }
func (m mockUserReader) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (m mockUserReader) TouchLastActive(context.Context, uuid.UUID) error       { return nil }

type mockInterviewRepo struct {
	upcoming     []interview.Interview
	upcomingErr  error
	employerRows []interview.UpcomingItem
	requested    int
}

func (m *mockInterviewRepo) Create(context.Context, interview.Interview) error { return nil }
func (m *mockInterviewRepo) GetByID(context.Context, uuid.UUID) (interview.Interview, error) {
	return interview.Interview{}, interview.ErrNotFound
}
func (m *mockInterviewRepo) SetStatus(context.Context, uuid.UUID, interview.Status) (interview.Interview, error) {
	return interview.Interview{}, nil
}
func (m *mockInterviewRepo) ListUpcomingByCandidate(_ context.Context, _ uuid.UUID, _ time.Time, _ []interview.Status, types []interview.Type, limit int) ([]interview.Interview, error) {
	if m.upcomingErr != nil {
		return nil, m.upcomingErr
	}
	out := make([]interview.Interview, 0)
	for _, iv := range m.upcoming {
		if len(types) > 0 && iv.Type != types[0] {
			continue
		}
		if len(types) == 0 && iv.Type == interview.TypeFeedback {
			continue
		}
		out = append(out, iv)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
func (m *mockInterviewRepo) ListUpcomingByEmployer(_ context.Context, _ uuid.UUID, _ time.Time, _ []interview.Status, _ int) ([]interview.UpcomingItem, error) {
	return m.employerRows, nil
}
func (m *mockInterviewRepo) CountByEmployer(context.Context, uuid.UUID, interview.Status) (int, error) {
	return m.requested, nil
}

type countingSubmissionRepo struct {
	mockSubmissionRepo
	byStatuses map[submission.Status]int
	countErr   error
	recent     []submission.ListItem
}

func (m *countingSubmissionRepo) CountByCandidate(_ context.Context, _ uuid.UUID, statuses []submission.Status) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	total := 0
	for _, st := range statuses {
		total += m.byStatuses[st]
	}
	return total, nil
}

func (m *countingSubmissionRepo) CountByEmployer(_ context.Context, _ uuid.UUID, statuses []submission.Status) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if len(statuses) == 0 {
		total := 0
		for _, n := range m.byStatuses {
			total += n
		}
		return total, nil
	}
	total := 0
	for _, st := range statuses {
		total += m.byStatuses[st]
	}
	return total, nil
}

func (m *countingSubmissionRepo) ListRecentByCandidate(_ context.Context, _ uuid.UUID, _ int) ([]submission.ListItem, error) {
	return m.recent, nil
}

func (m *countingSubmissionRepo) ListRecentByEmployer(_ context.Context, _ uuid.UUID, _ int) ([]submission.ListItem, error) {
	return m.recent, nil
}

func fixedDashboard(subs submission.Repository, ivs interview.Repository, usr user.Repository, ch challenge.Repository) *Dashboard {
	d := NewDashboardUsecase(usr, ch, subs, ivs)
	d.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return d
}

func TestDashboardStats_Candidate(t *testing.T) {
	subs := &countingSubmissionRepo{byStatuses: map[submission.Status]int{
		submission.StatusCompleted: 7,
		submission.StatusSubmitted: 2,
		submission.StatusInReview:  1,
	}}
	ivs := &mockInterviewRepo{upcoming: []interview.Interview{
		{Position: "Backend Engineer", Company: "Acme", Type: interview.TypeTechnical, Date: time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)},
	}}
	usr := mockUserReader{u: user.User{Skills: []user.Skill{
		{Name: "Go", Level: 80, ProgressHistory: []user.SkillSnapshot{{Level: 60}, {Level: 80}}},
	}}}

	d := fixedDashboard(subs, ivs, usr, &mockChallengeRepo{})
	got, err := d.Stats(context.Background(), Caller{ID: uuid.New(), Role: user.RoleCandidate}, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	stats, ok := got.(CandidateStats)
	if !ok {
		t.Fatalf("expected CandidateStats, got %T", got)
	}
	if stats.CompletedChallenges != 7 {
		t.Fatalf("expected 7 completed, got %d", stats.CompletedChallenges)
	}
	if stats.PendingSubmissions != 3 {
		t.Fatalf("expected 3 pending, got %d", stats.PendingSubmissions)
	}
	if len(stats.UpcomingInterviews) != 1 || stats.UpcomingInterviews[0].Company != "Acme" {
		t.Fatalf("unexpected upcoming interviews: %+v", stats.UpcomingInterviews)
	}
	if stats.TopSkill != "Go" {
		t.Fatalf("expected top skill Go, got %q", stats.TopSkill)
	}
	if stats.SkillGrowth != 20 {
		t.Fatalf("expected skill growth 20, got %d", stats.SkillGrowth)
	}
}

func TestDashboardStats_FailsClosedOnAnyQueryError(t *testing.T) {
	subs := &countingSubmissionRepo{countErr: errors.New("connection reset")}
	d := fixedDashboard(subs, &mockInterviewRepo{}, mockUserReader{}, &mockChallengeRepo{})

	_, err := d.Stats(context.Background(), Caller{ID: uuid.New(), Role: user.RoleCandidate}, "")
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestDashboardActivity_EmployerShapesRows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	score := 91
	subs := &countingSubmissionRepo{recent: []submission.ListItem{
		{
			Submission:     submission.Submission{Status: submission.StatusSubmitted, SubmittedAt: now.Add(-2 * time.Hour)},
			ChallengeTitle: "API Rate Limiter",
			CandidateName:  "Alex",
		},
		{
			Submission:     submission.Submission{Status: submission.StatusCompleted, Score: &score, SubmittedAt: now.AddDate(0, 0, -1)},
			ChallengeTitle: "Bug Hunt",
			CandidateName:  "Sam",
		},
	}}
	d := fixedDashboard(subs, &mockInterviewRepo{}, mockUserReader{}, &mockChallengeRepo{})

	entries, err := d.Activity(context.Background(), Caller{ID: uuid.New(), Role: user.RoleEmployer}, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Status != "Pending Review" {
		t.Fatalf("Submitted must render as Pending Review, got %q", entries[0].Status)
	}
	if entries[0].Time != "2 hours ago" || entries[0].Score != "Pending" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Score != "91%" {
		t.Fatalf("expected score 91%%, got %q", entries[1].Score)
	}
}

func TestDashboardSchedule_SortsByInstantAndTruncates(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ivs := &mockInterviewRepo{upcoming: []interview.Interview{
		{Position: "Platform Engineer", Type: interview.TypeMock, Date: now.Add(48 * time.Hour)},
		{Position: "SRE", Type: interview.TypeTechnical, Date: now.Add(3 * time.Hour)},
		{Position: "Frontend", Type: interview.TypeFeedback, Date: now.Add(24 * time.Hour)},
	}}
	ch := &mockChallengeRepo{}
	ch.items = []challenge.Challenge{
		{Title: "Design a URL Shortener", EstimatedTime: "6 hours"},
		{Title: "Fix the Cache", EstimatedTime: "1 day"},
	}

	d := fixedDashboard(&countingSubmissionRepo{}, ivs, mockUserReader{}, ch)
	entries, err := d.Schedule(context.Background(), Caller{ID: uuid.New(), Role: user.RoleCandidate})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(entries) > scheduleLimit {
		t.Fatalf("schedule must be capped at %d, got %d", scheduleLimit, len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].At.Before(entries[i-1].At) {
			t.Fatalf("entries out of order: %q before %q", entries[i].Title, entries[i-1].Title)
		}
	}
	if entries[0].Title != "Technical Interview: SRE" {
		t.Fatalf("expected the soonest event first, got %q", entries[0].Title)
	}
}
