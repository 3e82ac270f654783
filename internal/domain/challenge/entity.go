package challenge

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAlgorithm      Type = "Algorithm"
	TypeProject        Type = "Project"
	TypeBugFixing      Type = "Bug Fixing"
	TypeSystemDesign   Type = "System Design"
	TypeAPIIntegration Type = "API Integration"
)

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeAlgorithm, TypeProject, TypeBugFixing, TypeSystemDesign, TypeAPIIntegration:
		return Type(s), true
	default:
		return "", false
	}
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
	DifficultyExpert       Difficulty = "Expert"
)

func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return Difficulty(s), true
	default:
		return "", false
	}
}

type Status string

const (
	StatusDraft    Status = "Draft"
	StatusActive   Status = "Active"
	StatusArchived Status = "Archived"
)

type Rating struct {
	Rating  int       `json:"rating"`
	UserID  uuid.UUID `json:"user_id"`
	Comment string    `json:"comment,omitempty"`
	Date    time.Time `json:"date"`
}

type Challenge struct {
	ID                 uuid.UUID
	Title              string
	Description        string
	Type               Type
	Skills             []string
	Difficulty         Difficulty
	EstimatedTime      string
	Instructions       string
	EvaluationCriteria []string
	CreatedBy          uuid.UUID
	Status             Status
	Submissions        int
	Completions        int
	Ratings            []Rating
	AverageRating      float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AverageOf computes the mean of the given ratings. Zero when empty, so a
// challenge without ratings reads as unrated rather than NaN.
func AverageOf(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range ratings {
		total += r.Rating
	}
	return float64(total) / float64(len(ratings))
}
