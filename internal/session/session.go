// Package session holds the state of one interactive workup session: the
// project inputs collected so far, the last setup result and any feedback
// the user left. A State is owned by its caller and is not safe for
// concurrent use.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/steveyegge/workup/internal/setup"
	"github.com/steveyegge/workup/internal/team"
)

// ErrEmptyFeedback is returned when feedback text is blank.
var ErrEmptyFeedback = errors.New("feedback cannot be empty")

// Feedback is one piece of user feedback on the generated output.
type Feedback struct {
	Text string
	At   time.Time
}

// State is the mutable state of a session.
type State struct {
	ID        string
	StartedAt time.Time

	Description  string
	Deliverables string
	Members      []team.Member
	Language     string

	// Last is the most recent setup result, nil until a run completes.
	Last *setup.Result

	feedback []Feedback
	now      func() time.Time
}

// New starts a session with a fresh ID.
func New() *State {
	s := &State{now: time.Now}
	s.start()
	return s
}

func (s *State) start() {
	s.ID = uuid.New().String()
	s.StartedAt = s.now()
}

// Input returns the setup input for the current project state.
func (s *State) Input(workDir string) setup.Input {
	return setup.Input{
		Description:  s.Description,
		Deliverables: s.Deliverables,
		Members:      append([]team.Member(nil), s.Members...),
		Language:     s.Language,
		WorkDir:      workDir,
	}
}

// AddMember adds m to the roster, replacing an existing member with the
// same name.
func (s *State) AddMember(m team.Member) {
	for i := range s.Members {
		if s.Members[i].Name == m.Name {
			s.Members[i] = m
			return
		}
	}
	s.Members = append(s.Members, m)
}

// RemoveMember drops the named member and reports whether it was present.
func (s *State) RemoveMember(name string) bool {
	for i := range s.Members {
		if s.Members[i].Name == name {
			s.Members = append(s.Members[:i], s.Members[i+1:]...)
			return true
		}
	}
	return false
}

// AddFeedback records feedback text.
func (s *State) AddFeedback(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyFeedback
	}
	s.feedback = append(s.feedback, Feedback{Text: text, At: s.now()})
	return nil
}

// Feedback returns a copy of the recorded feedback, oldest first.
func (s *State) Feedback() []Feedback {
	return append([]Feedback(nil), s.feedback...)
}

// Reset clears all inputs, results and feedback and starts a new session ID.
func (s *State) Reset() {
	now := s.now
	*s = State{now: now}
	s.start()
}
