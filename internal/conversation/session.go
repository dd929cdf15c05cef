package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Session is one conversation surface. It is owned by a single controller
// call at a time; the transcript is append-only.
type Session struct {
	ID         uuid.UUID `json:"id"`
	Audience   Audience  `json:"audience"`
	State      State     `json:"state"`
	PlanID     string    `json:"planId,omitempty"`
	Draft      Draft     `json:"draft"`
	Transcript []Turn    `json:"transcript"`
	Owner      *Identity `json:"owner,omitempty"`
	Redirect   string    `json:"redirect,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewSession creates an empty session for the given audience
func NewSession(aud Audience, owner *Identity) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.New(),
		Audience:   aud,
		Transcript: []Turn{},
		Owner:      owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// append assigns the next sequence number and stores the turn
func (s *Session) append(t Turn) int {
	t.ID = len(s.Transcript) + 1
	s.Transcript = append(s.Transcript, t)
	s.UpdatedAt = time.Now()
	return len(s.Transcript) - 1
}

func (s *Session) appendBot(turns ...Turn) {
	for _, t := range turns {
		t.Speaker = SpeakerBot
		s.append(t)
	}
}

func (s *Session) appendUser(text string) int {
	return s.append(Turn{Speaker: SpeakerUser, Text: text})
}

// annotate sets the display-only selected option on a user turn
func (s *Session) annotate(idx int, label string) {
	if label == "" || idx < 0 || idx >= len(s.Transcript) {
		return
	}
	if s.Transcript[idx].Speaker != SpeakerUser {
		return
	}
	s.Transcript[idx].SelectedOption = label
}

func (s *Session) apply(out Outcome) {
	s.State = out.Next
	s.Draft = out.Draft
	if out.Next == StatePlanDetail {
		if out.PlanID != "" {
			s.PlanID = out.PlanID
		}
	} else {
		s.PlanID = ""
	}
	// a redirect only applies to the turn that produced it
	s.Redirect = out.Redirect
	s.appendBot(out.Turns...)
}

// View is what the renderer receives after every turn
type View struct {
	SessionID  uuid.UUID   `json:"sessionId"`
	Audience   Audience    `json:"audience"`
	Transcript []Turn      `json:"transcript"`
	Expect     Expectation `json:"expect"`
	Redirect   string      `json:"redirect,omitempty"`
}
