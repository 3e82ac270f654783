package dto

import (
	"time"

	"github.com/google/uuid"

	"skillproof/internal/domain/interview"
)

type InterviewResponse struct {
	ID          uuid.UUID        `json:"id"`
	CandidateID uuid.UUID        `json:"candidateId"`
	EmployerID  uuid.UUID        `json:"employerId"`
	Company     string           `json:"company"`
	Position    string           `json:"position"`
	Type        interview.Type   `json:"type"`
	Date        time.Time        `json:"date"`
	Duration    int              `json:"duration"`
	Status      interview.Status `json:"status"`
	MeetingURL  string           `json:"meetingUrl,omitempty"`
}

func InterviewFrom(iv interview.Interview) InterviewResponse {
	return InterviewResponse{
		ID:          iv.ID,
		CandidateID: iv.CandidateID,
		EmployerID:  iv.EmployerID,
		Company:     iv.Company,
		Position:    iv.Position,
		Type:        iv.Type,
		Date:        iv.Date,
		Duration:    iv.Duration,
		Status:      iv.Status,
		MeetingURL:  iv.MeetingURL,
	}
}
