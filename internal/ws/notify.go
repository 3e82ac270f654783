package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type event struct {
	Type        string `json:"type"`
	ChallengeID string `json:"challenge_id,omitempty"`
	EmployerID  string `json:"employer_id,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Notifier adapts the hub to the usecase notification contract.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) SubmissionReceived(employerID uuid.UUID, challengeID uuid.UUID) {
	if n == nil || n.hub == nil {
		return
	}
	n.push(employerID, event{
		Type:        "submission_received",
		ChallengeID: challengeID.String(),
	})
}

func (n *Notifier) InterviewScheduled(candidateID, employerID uuid.UUID) {
	if n == nil || n.hub == nil {
		return
	}
	evt := event{
		Type:       "interview_scheduled",
		EmployerID: employerID.String(),
	}
	n.push(candidateID, evt)
	n.push(employerID, evt)
}

func (n *Notifier) push(userID uuid.UUID, evt event) {
	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Send(userID, b)
}
