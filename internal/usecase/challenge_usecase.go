package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/challenge"
)

var ErrChallengeNotFound = errors.New("challenge not found")

// ChallengeListParams carries the raw query-string filters. Enum values that
// do not parse are dropped rather than rejected, matching the listing's
// documented leniency.
type ChallengeListParams struct {
	Type       string
	Skill      string
	Difficulty string
	Search     string
	Page       int
	Limit      int
}

type ChallengeListItem struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Type          challenge.Type       `json:"type"`
	Skills        []string             `json:"skills"`
	Difficulty    challenge.Difficulty `json:"difficulty"`
	EstimatedTime string               `json:"estimatedTime"`
	Completions   int                  `json:"completions"`
	AverageRating float64              `json:"averageRating"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type ChallengeListResult struct {
	Challenges []ChallengeListItem `json:"challenges"`
	Pagination Pagination          `json:"pagination"`
}

type CreateChallengeInput struct {
	Title              string
	Description        string
	Type               string
	Skills             []string
	Difficulty         string
	EstimatedTime      string
	Instructions       string
	EvaluationCriteria []string
}

type ChallengeUsecase interface {
	List(ctx context.Context, params ChallengeListParams) (ChallengeListResult, error)
	Create(ctx context.Context, caller Caller, in CreateChallengeInput) (challenge.Challenge, error)
	AddRating(ctx context.Context, caller Caller, challengeID uuid.UUID, rating int, comment string) (challenge.Challenge, error)
}

type Challenges struct {
	repo   challenge.Repository
	cache  ListCache
	logger *log.Logger

	now func() time.Time
}

func NewChallengeUsecase(repo challenge.Repository, cache ListCache, logger *log.Logger) *Challenges {
	return &Challenges{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// List returns the challenge catalog: Active records only, all given
// filters ANDed, newest first.
func (u *Challenges) List(ctx context.Context, params ChallengeListParams) (ChallengeListResult, error) {
	params.Page, params.Limit = normalizePage(params.Page, params.Limit)

	cacheKey := ""
	if u.cache != nil {
		cacheKey = challengeListCacheKey(params)
		var cached ChallengeListResult
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Challenges] cache hit: %s", cacheKey)
			}
			return cached, nil
		}
	}

	f := challenge.ListFilter{
		Search: strings.TrimSpace(params.Search),
		Status: challenge.StatusActive,
		Limit:  params.Limit,
		Offset: (params.Page - 1) * params.Limit,
	}
	if t, ok := challenge.ParseType(strings.TrimSpace(params.Type)); ok {
		f.Type = t
	}
	if d, ok := challenge.ParseDifficulty(strings.TrimSpace(params.Difficulty)); ok {
		f.Difficulty = d
	}
	if s := strings.TrimSpace(params.Skill); s != "" {
		f.Skill = s
	}

	rows, total, err := u.repo.List(ctx, f)
	if err != nil {
		return ChallengeListResult{}, ErrInternal
	}

	items := make([]ChallengeListItem, 0, len(rows))
	for _, c := range rows {
		items = append(items, ChallengeListItem{
			ID:            c.ID,
			Title:         c.Title,
			Description:   c.Description,
			Type:          c.Type,
			Skills:        c.Skills,
			Difficulty:    c.Difficulty,
			EstimatedTime: c.EstimatedTime,
			Completions:   c.Completions,
			AverageRating: c.AverageRating,
			CreatedAt:     c.CreatedAt,
		})
	}

	result := ChallengeListResult{
		Challenges: items,
		Pagination: paginationFor(total, params.Page, params.Limit),
	}

	if u.cache != nil && cacheKey != "" {
		_ = u.cache.SetJSON(ctx, cacheKey, result, 0)
	}

	return result, nil
}

func (u *Challenges) Create(ctx context.Context, caller Caller, in CreateChallengeInput) (challenge.Challenge, error) {
	if !caller.IsEmployer() {
		return challenge.Challenge{}, ErrForbidden
	}

	typ, okType := challenge.ParseType(strings.TrimSpace(in.Type))
	diff, okDiff := challenge.ParseDifficulty(strings.TrimSpace(in.Difficulty))
	if !okType || !okDiff {
		return challenge.Challenge{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return challenge.Challenge{}, ErrInvalidInput
	}

	now := u.now().UTC()
	c := challenge.Challenge{
		ID:                 uuid.New(),
		Title:              strings.TrimSpace(in.Title),
		Description:        in.Description,
		Type:               typ,
		Skills:             in.Skills,
		Difficulty:         diff,
		EstimatedTime:      in.EstimatedTime,
		Instructions:       in.Instructions,
		EvaluationCriteria: in.EvaluationCriteria,
		CreatedBy:          caller.ID,
		Status:             challenge.StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := u.repo.Create(ctx, c); err != nil {
		return challenge.Challenge{}, ErrInternal
	}

	u.invalidateListing(ctx)
	return c, nil
}

// AddRating appends one rating; the repository recomputes average_rating in
// the same transaction so it is never stale.
func (u *Challenges) AddRating(ctx context.Context, caller Caller, challengeID uuid.UUID, rating int, comment string) (challenge.Challenge, error) {
	if rating < 1 || rating > 5 {
		return challenge.Challenge{}, ErrInvalidInput
	}

	c, err := u.repo.AppendRating(ctx, challengeID, challenge.Rating{
		Rating:  rating,
		UserID:  caller.ID,
		Comment: strings.TrimSpace(comment),
		Date:    u.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, challenge.ErrNotFound) {
			return challenge.Challenge{}, ErrChallengeNotFound
		}
		return challenge.Challenge{}, ErrInternal
	}

	u.invalidateListing(ctx)
	return c, nil
}

func (u *Challenges) invalidateListing(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, challengeListKeyPrefix+"*"); err != nil && u.logger != nil {
		u.logger.Printf("[Challenges] cache invalidation failed: %v", err)
	}
}
