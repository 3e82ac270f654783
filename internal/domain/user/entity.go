package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

type SkillSnapshot struct {
	Date  time.Time `json:"date"`
	Level int       `json:"level"`
}

type Skill struct {
	Name            string          `json:"name"`
	Level           int             `json:"level"`
	ProgressHistory []SkillSnapshot `json:"progress_history,omitempty"`
}

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Image        string
	Role         Role
	Skills       []Skill
	Company      string
	Position     string
	Bio          string
	GithubURL    string
	LinkedinURL  string
	LastActive   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
