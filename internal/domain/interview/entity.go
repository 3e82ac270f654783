package interview

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeMock       Type = "Mock"
	TypeReal       Type = "Real"
	TypeTechnical  Type = "Technical"
	TypeBehavioral Type = "Behavioral"
	TypeFeedback   Type = "Feedback"
)

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeMock, TypeReal, TypeTechnical, TypeBehavioral, TypeFeedback:
		return Type(s), true
	default:
		return "", false
	}
}

type Status string

const (
	StatusRequested   Status = "Requested"
	StatusScheduled   Status = "Scheduled"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
	StatusRescheduled Status = "Rescheduled"
)

type Notes struct {
	BeforeInterview string `json:"before_interview,omitempty"`
	AfterInterview  string `json:"after_interview,omitempty"`
}

type Feedback struct {
	Rating              int       `json:"rating,omitempty"`
	Strengths           []string  `json:"strengths,omitempty"`
	AreasForImprovement []string  `json:"areas_for_improvement,omitempty"`
	Comments            string    `json:"comments,omitempty"`
	SubmittedAt         time.Time `json:"submitted_at"`
}

type Interview struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	EmployerID  uuid.UUID
	Company     string
	Position    string
	Type        Type
	Date        time.Time
	Duration    int
	Status      Status
	MeetingURL  string
	Notes       *Notes
	Feedback    *Feedback
	CreatedAt   time.Time
}
