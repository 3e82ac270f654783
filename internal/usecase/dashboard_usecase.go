package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"skillproof/internal/domain/challenge"
	"skillproof/internal/domain/interview"
	"skillproof/internal/domain/submission"
	"skillproof/internal/domain/user"
	"skillproof/internal/pkg/timeago"
)

const (
	activityLimit   = 5
	scheduleLimit   = 4
	defaultTopSkill = "React Development"
)

type CandidateStats struct {
	CompletedChallenges int                 `json:"completedChallenges"`
	UpcomingInterviews  []UpcomingInterview `json:"upcomingInterviews"`
	PendingSubmissions  int                 `json:"pendingSubmissions"`
	SkillGrowth         int                 `json:"skillGrowth"`
	TopSkill            string              `json:"topSkill"`
}

type EmployerStats struct {
	ActiveChallenges  int `json:"activeChallenges"`
	PendingReviews    int `json:"pendingReviews"`
	InterviewRequests int `json:"interviewRequests"`
	TotalSubmissions  int `json:"totalSubmissions"`
	TopCandidates     int `json:"topCandidates"`
}

type UpcomingInterview struct {
	Position string    `json:"position"`
	Company  string    `json:"company"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
}

type ActivityEntry struct {
	Title     string `json:"title,omitempty"`
	Candidate string `json:"candidate,omitempty"`
	Challenge string `json:"challenge,omitempty"`
	Status    string `json:"status"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Score     string `json:"score,omitempty"`
}

// ScheduleEntry is one upcoming event. At is the original instant the entry
// was built from and is what the merge sorts on; Time is only a rendering of
// it.
type ScheduleEntry struct {
	Title     string    `json:"title,omitempty"`
	Candidate string    `json:"candidate,omitempty"`
	Position  string    `json:"position,omitempty"`
	Type      string    `json:"type,omitempty"`
	Time      string    `json:"time"`
	At        time.Time `json:"-"`
}

type DashboardUsecase interface {
	Stats(ctx context.Context, caller Caller, userType string) (any, error)
	Activity(ctx context.Context, caller Caller, userType string) ([]ActivityEntry, error)
	Schedule(ctx context.Context, caller Caller) ([]ScheduleEntry, error)
}

type Dashboard struct {
	users       user.Repository
	challenges  challenge.Repository
	submissions submission.Repository
	interviews  interview.Repository

	now func() time.Time
}

func NewDashboardUsecase(users user.Repository, challenges challenge.Repository, submissions submission.Repository, interviews interview.Repository) *Dashboard {
	return &Dashboard{
		users:       users,
		challenges:  challenges,
		submissions: submissions,
		interviews:  interviews,
		now:         time.Now,
	}
}

// roleScope is the single place candidate/employer branching lives: each role
// implements how its rows are filtered and shaped, and the handlers dispatch
// through the interface instead of duplicated string checks.
type roleScope interface {
	stats(ctx context.Context, caller Caller) (any, error)
	activity(ctx context.Context, caller Caller) ([]ActivityEntry, error)
	schedule(ctx context.Context, caller Caller) ([]ScheduleEntry, error)
}

// scopeFor picks the scope for an explicit userType override, falling back to
// the session role. Identity always comes from the caller either way.
func (d *Dashboard) scopeFor(caller Caller, userType string) roleScope {
	role := caller.Role
	if parsed, ok := user.ParseRole(strings.TrimSpace(userType)); ok {
		role = parsed
	}
	if role == user.RoleEmployer {
		return employerScope{d}
	}
	return candidateScope{d}
}

func (d *Dashboard) Stats(ctx context.Context, caller Caller, userType string) (any, error) {
	return d.scopeFor(caller, userType).stats(ctx, caller)
}

func (d *Dashboard) Activity(ctx context.Context, caller Caller, userType string) ([]ActivityEntry, error) {
	return d.scopeFor(caller, userType).activity(ctx, caller)
}

func (d *Dashboard) Schedule(ctx context.Context, caller Caller) ([]ScheduleEntry, error) {
	return d.scopeFor(caller, "").schedule(ctx, caller)
}

type candidateScope struct{ d *Dashboard }

// stats fans the independent counts out concurrently and joins them; any
// failed query fails the whole response, never a partial one.
func (s candidateScope) stats(ctx context.Context, caller Caller) (any, error) {
	d := s.d
	now := d.now().UTC()

	var (
		completed int
		pending   int
		upcoming  []interview.Interview
		profile   user.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		completed, err = d.submissions.CountByCandidate(gctx, caller.ID, []submission.Status{submission.StatusCompleted})
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = d.submissions.CountByCandidate(gctx, caller.ID, []submission.Status{submission.StatusSubmitted, submission.StatusInReview})
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = d.interviews.ListUpcomingByCandidate(gctx, caller.ID, now, nil, nil, 2)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = d.users.GetByID(gctx, caller.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, ErrInternal
	}

	ivs := make([]UpcomingInterview, 0, len(upcoming))
	for _, iv := range upcoming {
		ivs = append(ivs, UpcomingInterview{
			Position: iv.Position,
			Company:  iv.Company,
			Type:     string(iv.Type),
			Date:     iv.Date,
		})
	}

	return CandidateStats{
		CompletedChallenges: completed,
		UpcomingInterviews:  ivs,
		PendingSubmissions:  pending,
		SkillGrowth:         skillGrowth(profile.Skills),
		TopSkill:            topSkill(profile.Skills),
	}, nil
}

func (s candidateScope) activity(ctx context.Context, caller Caller) ([]ActivityEntry, error) {
	d := s.d
	rows, err := d.submissions.ListRecentByCandidate(ctx, caller.ID, activityLimit)
	if err != nil {
		return nil, ErrInternal
	}

	now := d.now().UTC()
	out := make([]ActivityEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, ActivityEntry{
			Title:  r.ChallengeTitle,
			Status: string(r.Status),
			Date:   timeago.Relative(r.SubmittedAt, now),
			Score:  scoreLabel(r.Score),
		})
	}
	return out, nil
}

func (s candidateScope) schedule(ctx context.Context, caller Caller) ([]ScheduleEntry, error) {
	d := s.d
	now := d.now().UTC()

	var (
		interviews []interview.Interview
		deadlines  []challenge.Challenge
		feedbacks  []interview.Interview
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		interviews, err = d.interviews.ListUpcomingByCandidate(gctx, caller.ID, now,
			[]interview.Status{interview.StatusScheduled, interview.StatusRequested}, nil, 3)
		return err
	})
	g.Go(func() error {
		var err error
		deadlines, err = d.challenges.ListActive(gctx, 2)
		return err
	})
	g.Go(func() error {
		var err error
		feedbacks, err = d.interviews.ListUpcomingByCandidate(gctx, caller.ID, now,
			nil, []interview.Type{interview.TypeFeedback}, 1)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, ErrInternal
	}

	events := make([]ScheduleEntry, 0, len(interviews)+len(deadlines)+len(feedbacks))
	for _, iv := range interviews {
		if iv.Type == interview.TypeFeedback {
			continue
		}
		events = append(events, ScheduleEntry{
			Title: fmt.Sprintf("%s Interview: %s", iv.Type, iv.Position),
			Type:  "Interview",
			Time:  timeago.EventTime(iv.Date, now),
			At:    iv.Date,
		})
	}
	for _, c := range deadlines {
		due := now.Add(estimatedDuration(c.EstimatedTime))
		events = append(events, ScheduleEntry{
			Title: c.Title,
			Type:  "Challenge Deadline",
			Time:  "Due in " + c.EstimatedTime,
			At:    due,
		})
	}
	for _, iv := range feedbacks {
		events = append(events, ScheduleEntry{
			Title: "Feedback Session: " + iv.Position,
			Type:  "Meeting",
			Time:  timeago.EventTime(iv.Date, now),
			At:    iv.Date,
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].At.Before(events[j].At) })
	if len(events) > scheduleLimit {
		events = events[:scheduleLimit]
	}
	return events, nil
}

type employerScope struct{ d *Dashboard }

func (s employerScope) stats(ctx context.Context, caller Caller) (any, error) {
	d := s.d

	var (
		active           int
		reviews          int
		requests         int
		total            int
		completedReviews int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = d.challenges.CountByCreator(gctx, caller.ID, challenge.StatusActive)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = d.submissions.CountByEmployer(gctx, caller.ID, []submission.Status{submission.StatusSubmitted})
		return err
	})
	g.Go(func() error {
		var err error
		requests, err = d.interviews.CountByEmployer(gctx, caller.ID, interview.StatusRequested)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = d.submissions.CountByEmployer(gctx, caller.ID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		completedReviews, err = d.submissions.CountByEmployer(gctx, caller.ID, []submission.Status{submission.StatusCompleted})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, ErrInternal
	}

	return EmployerStats{
		ActiveChallenges:  active,
		PendingReviews:    reviews,
		InterviewRequests: requests,
		TotalSubmissions:  total,
		TopCandidates:     completedReviews,
	}, nil
}

func (s employerScope) activity(ctx context.Context, caller Caller) ([]ActivityEntry, error) {
	d := s.d
	rows, err := d.submissions.ListRecentByEmployer(ctx, caller.ID, activityLimit)
	if err != nil {
		return nil, ErrInternal
	}

	now := d.now().UTC()
	out := make([]ActivityEntry, 0, len(rows))
	for _, r := range rows {
		status := string(r.Status)
		if r.Status == submission.StatusSubmitted {
			status = "Pending Review"
		}
		out = append(out, ActivityEntry{
			Candidate: r.CandidateName,
			Challenge: r.ChallengeTitle,
			Status:    status,
			Time:      timeago.Relative(r.SubmittedAt, now),
			Score:     scoreLabel(r.Score),
		})
	}
	return out, nil
}

func (s employerScope) schedule(ctx context.Context, caller Caller) ([]ScheduleEntry, error) {
	d := s.d
	now := d.now().UTC()

	rows, err := d.interviews.ListUpcomingByEmployer(ctx, caller.ID, now,
		[]interview.Status{interview.StatusScheduled, interview.StatusRequested}, scheduleLimit)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ScheduleEntry, 0, len(rows))
	for _, iv := range rows {
		out = append(out, ScheduleEntry{
			Candidate: iv.CandidateName,
			Position:  iv.Position,
			Time:      timeago.EventTime(iv.Date, now),
			At:        iv.Date,
		})
	}
	return out, nil
}

func scoreLabel(score *int) string {
	if score == nil {
		return "Pending"
	}
	return fmt.Sprintf("%d%%", *score)
}

func topSkill(skills []user.Skill) string {
	if len(skills) == 0 {
		return defaultTopSkill
	}
	return skills[0].Name
}

// skillGrowth averages the level delta between the first and last snapshot of
// every skill with history.
func skillGrowth(skills []user.Skill) int {
	total, counted := 0, 0
	for _, s := range skills {
		if len(s.ProgressHistory) < 2 {
			continue
		}
		first := s.ProgressHistory[0].Level
		last := s.ProgressHistory[len(s.ProgressHistory)-1].Level
		total += last - first
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / counted
}

var estimateRe = regexp.MustCompile(`(\d+)\s*(hour|day|week)`)

// estimatedDuration turns an estimated-time label like "48 hours" or "2 days"
// into a duration so challenge deadlines can sort against real instants.
func estimatedDuration(estimate string) time.Duration {
	m := estimateRe.FindStringSubmatch(strings.ToLower(estimate))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	switch m[2] {
	case "hour":
		return time.Duration(n) * time.Hour
	case "day":
		return time.Duration(n) * 24 * time.Hour
	case "week":
		return time.Duration(n) * 7 * 24 * time.Hour
	}
	return 0
}
