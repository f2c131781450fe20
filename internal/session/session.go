// Package session owns one hand being entered and applies user intents to
// it one at a time.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/history"
	"github.com/lox/handcoach/internal/wizard"
)

var ErrNotOnReview = errors.New("submit is only available on the review step")

// Result is what a successfully applied intent produced.
type Result struct {
	State hand.State
	Step  wizard.Step
	// Question is set when the intent appended a "?" action. Snapshot is
	// then the document rendered from the state after the append, ready to
	// hand to the analysis service.
	Question bool
	Snapshot string
}

// Session holds the current hand and wizard step. It is not safe for
// concurrent use; callers serialise intents.
type Session struct {
	id      string
	state   hand.State
	machine wizard.Machine
	labels  history.Labels
	logger  *log.Logger
}

// New returns a session on a fresh hand.
func New(logger *log.Logger, labels history.Labels) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		state:   hand.NewState(),
		machine: wizard.New(),
		labels:  labels,
		logger:  logger.WithPrefix("session").With("session", id[:8]),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current hand.
func (s *Session) State() hand.State {
	return s.state
}

// Step returns the current wizard step.
func (s *Session) Step() wizard.Step {
	return s.machine.Current()
}

// Machine returns the wizard machine, for views that render the step bar.
func (s *Session) Machine() wizard.Machine {
	return s.machine
}

// Labels returns the document labels the session renders with.
func (s *Session) Labels() history.Labels {
	return s.labels
}

// Apply runs one intent. The new state and step replace the old ones
// together, and only when the intent succeeds.
func (s *Session) Apply(in Intent) (Result, error) {
	state, machine, entry, err := in.apply(s.state, s.machine)
	if err != nil {
		s.logRejection(in, err)
		return s.result(), err
	}
	if err := state.Check(); err != nil {
		// Transitions never produce a bad state; refuse to commit one.
		s.logger.Error("Transition broke hand invariants", "intent", in.String(), "error", err)
		return s.result(), fmt.Errorf("%s: %w", in.Type, err)
	}

	s.state = state
	s.machine = machine
	s.logger.Debug("Applied intent", "intent", in.String(), "step", s.machine.Current(), "pot", s.state.PotSize)

	res := s.result()
	if entry != nil && entry.IsQuestion {
		res.Question = true
		res.Snapshot = history.SerializeWith(state, s.labels)
		s.logger.Info("Analysis requested", "position", entry.Position, "questions", state.QuestionCount())
	}
	return res, nil
}

// Preview renders the current hand for live display.
func (s *Session) Preview() string {
	return history.SerializeWith(s.state, s.labels)
}

// Submit renders the finished hand for analysis. It only succeeds on the
// review step.
func (s *Session) Submit() (string, error) {
	if s.machine.Current() != wizard.Review {
		return "", fmt.Errorf("%w: on %s", ErrNotOnReview, s.machine.Current())
	}
	s.logger.Info("Hand submitted", "players", s.state.PlayerCount, "actions", len(s.state.AllActions()))
	return history.SerializeWith(s.state, s.labels), nil
}

func (s *Session) result() Result {
	return Result{State: s.state, Step: s.machine.Current()}
}

func (s *Session) logRejection(in Intent, err error) {
	switch {
	case hand.IsInvariant(err):
		s.logger.Error("Invariant violation", "intent", in.String(), "error", err)
	case errors.Is(err, wizard.ErrGuard), errors.Is(err, wizard.ErrUnvisited), errors.Is(err, wizard.ErrTerminal):
		s.logger.Debug("Step change refused", "intent", in.String(), "step", s.machine.Current(), "error", err)
	default:
		s.logger.Debug("Intent rejected", "intent", in.String(), "error", err)
	}
}
