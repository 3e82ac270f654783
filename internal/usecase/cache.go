package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// ListCache is what the challenge listing needs from Redis. A nil cache is a
// valid no-op implementation.
type ListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type challengeCacheKeyInput struct {
	Type       string `json:"type"`
	Skill      string `json:"skill"`
	Difficulty string `json:"difficulty"`
	Search     string `json:"search"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

const challengeListKeyPrefix = "challenges:list:"

func challengeListCacheKey(p ChallengeListParams) string {
	in := challengeCacheKeyInput{
		Type:       normalizeCacheValue(p.Type),
		Skill:      normalizeCacheValue(p.Skill),
		Difficulty: normalizeCacheValue(p.Difficulty),
		Search:     normalizeCacheValue(p.Search),
		Page:       p.Page,
		Limit:      p.Limit,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return challengeListKeyPrefix + hex.EncodeToString(sum[:])
}

func normalizeCacheValue(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}
