// Package wizard gates movement through the six steps of hand entry.
package wizard

import (
	"errors"
	"fmt"

	"github.com/lox/handcoach/internal/hand"
)

// Step is a 1-based wizard step.
type Step int

const (
	BasicInfo Step = iota + 1
	PreflopStep
	FlopStep
	TurnStep
	RiverStep
	Review
)

// First and Last bound the step range.
const (
	First = BasicInfo
	Last  = Review
)

// Steps lists every step in order.
var Steps = []Step{BasicInfo, PreflopStep, FlopStep, TurnStep, RiverStep, Review}

var (
	ErrGuard     = errors.New("step is incomplete")
	ErrUnvisited = errors.New("step not reached yet")
	ErrTerminal  = errors.New("review is the last step")
)

func (s Step) String() string {
	switch s {
	case BasicInfo:
		return "basic info"
	case PreflopStep:
		return "preflop"
	case FlopStep:
		return "flop"
	case TurnStep:
		return "turn"
	case RiverStep:
		return "river"
	case Review:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Title is the step's heading in the Japanese interface.
func (s Step) Title() string {
	switch s {
	case BasicInfo:
		return "基本情報"
	case PreflopStep:
		return "プリフロップ"
	case FlopStep:
		return "フロップ"
	case TurnStep:
		return "ターン"
	case RiverStep:
		return "リバー"
	case Review:
		return "確認"
	default:
		return s.String()
	}
}

// Valid reports whether s is one of the six steps.
func (s Step) Valid() bool {
	return s >= First && s <= Last
}

// Street returns the street whose actions are entered on this step.
func (s Step) Street() (hand.Street, bool) {
	switch s {
	case PreflopStep:
		return hand.Preflop, true
	case FlopStep:
		return hand.Flop, true
	case TurnStep:
		return hand.Turn, true
	case RiverStep:
		return hand.River, true
	default:
		return 0, false
	}
}

// Guard returns nil when the state satisfies the condition for leaving
// step s forward.
func Guard(s Step, state hand.State) error {
	switch s {
	case BasicInfo:
		if !state.HeroComplete() {
			return fmt.Errorf("%w: both hero cards need a rank and a suit", ErrGuard)
		}
	case FlopStep:
		if !state.FlopComplete() {
			return fmt.Errorf("%w: all three flop cards need a rank and a suit", ErrGuard)
		}
	case TurnStep:
		if !state.TurnCard.IsComplete() {
			return fmt.Errorf("%w: the turn card needs a rank and a suit", ErrGuard)
		}
	case RiverStep:
		if !state.RiverCard.IsComplete() {
			return fmt.Errorf("%w: the river card needs a rank and a suit", ErrGuard)
		}
	case Review:
		return ErrTerminal
	}
	return nil
}

// Machine holds the current step and nothing else; all hand data lives in
// hand.State and is passed in when a guard needs it.
type Machine struct {
	current Step
}

// New returns a machine on the first step.
func New() Machine {
	return Machine{current: First}
}

// Current returns the current step. The zero Machine is on the first step.
func (m Machine) Current() Step {
	if !m.current.Valid() {
		return First
	}
	return m.current
}

// Visited reports whether s can be jumped to.
func (m Machine) Visited(s Step) bool {
	return s.Valid() && s <= m.Current()
}

// CanAdvance reports whether Next would succeed for state.
func (m Machine) CanAdvance(state hand.State) bool {
	return Guard(m.Current(), state) == nil
}

// Next moves forward one step if the current step's guard holds.
func (m Machine) Next(state hand.State) (Machine, error) {
	cur := m.Current()
	if err := Guard(cur, state); err != nil {
		return m, fmt.Errorf("leave %s: %w", cur, err)
	}
	return Machine{current: cur + 1}, nil
}

// Back moves back one step. It is a no-op on the first step.
func (m Machine) Back() Machine {
	return Machine{current: max(m.Current()-1, First)}
}

// Jump moves directly to an already reached step.
func (m Machine) Jump(s Step) (Machine, error) {
	if !s.Valid() {
		return m, fmt.Errorf("%w: %d is not a step", ErrUnvisited, int(s))
	}
	if s > m.Current() {
		return m, fmt.Errorf("%w: %s", ErrUnvisited, s)
	}
	return Machine{current: s}, nil
}
