package hand

import (
	"fmt"
	"slices"

	"github.com/lox/handcoach/internal/deck"
)

const (
	// DefaultStack is the starting stack, in big blinds, for every seat.
	DefaultStack = 100.0
	// MaxStack caps stack entry.
	MaxStack = 999.0
	// DefaultHero is the hero's seat in a fresh hand.
	DefaultHero = CO
)

// StackEntry is one seat's stack in big blinds.
type StackEntry struct {
	Position Position
	Stack    float64
	IsHero   bool
}

// State is the description of one hand being entered. It is a value:
// every transition returns a new State and never mutates the receiver's
// slices, so an older State can be kept and compared safely.
type State struct {
	HeroHand     [2]deck.Card
	HeroPosition Position
	PlayerCount  int
	Stacks       []StackEntry

	// PotSize is always PotSize(State); it is recomputed by every action
	// transition and never set directly.
	PotSize float64

	PreflopActions []ActionEntry
	FlopActions    []ActionEntry
	TurnActions    []ActionEntry
	RiverActions   []ActionEntry

	FlopCards [3]deck.Card
	TurnCard  deck.Card
	RiverCard deck.Card
}

// NewState returns the state a new hand starts from: six players, hero on
// the cutoff, 100BB stacks and the forced bets in the pot.
func NewState() State {
	return State{
		HeroPosition: DefaultHero,
		PlayerCount:  DefaultPlayers,
		Stacks:       DefaultStacks(DefaultPlayers, DefaultHero),
		PotSize:      InitialForcedBets,
	}
}

// DefaultStacks returns one 100BB entry per seat for the player count.
func DefaultStacks(playerCount int, hero Position) []StackEntry {
	positions := PositionsFor(playerCount)
	stacks := make([]StackEntry, len(positions))
	for i, p := range positions {
		stacks[i] = StackEntry{Position: p, Stack: DefaultStack, IsHero: p == hero}
	}
	return stacks
}

// Actions returns the action log for a street.
func (s State) Actions(street Street) []ActionEntry {
	switch street {
	case Preflop:
		return s.PreflopActions
	case Flop:
		return s.FlopActions
	case Turn:
		return s.TurnActions
	case River:
		return s.RiverActions
	default:
		return nil
	}
}

// withActions returns a copy of s with the street's log replaced.
func (s State) withActions(street Street, actions []ActionEntry) State {
	switch street {
	case Preflop:
		s.PreflopActions = actions
	case Flop:
		s.FlopActions = actions
	case Turn:
		s.TurnActions = actions
	case River:
		s.RiverActions = actions
	}
	return s
}

// AllActions returns every action from preflop through river.
func (s State) AllActions() []ActionEntry {
	var all []ActionEntry
	for _, street := range Streets {
		all = append(all, s.Actions(street)...)
	}
	return all
}

// Card returns the card in a slot.
func (s State) Card(slot Slot) (deck.Card, error) {
	if !slot.Valid() {
		return deck.Card{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	switch slot.Kind {
	case HeroCard:
		return s.HeroHand[slot.Index], nil
	case FlopCard:
		return s.FlopCards[slot.Index], nil
	case TurnCard:
		return s.TurnCard, nil
	default:
		return s.RiverCard, nil
	}
}

// withCard returns a copy of s with the slot overwritten. The slot must be valid.
func (s State) withCard(slot Slot, c deck.Card) State {
	switch slot.Kind {
	case HeroCard:
		s.HeroHand[slot.Index] = c
	case FlopCard:
		s.FlopCards[slot.Index] = c
	case TurnCard:
		s.TurnCard = c
	case RiverCard:
		s.RiverCard = c
	}
	return s
}

// Stack returns the stack entry for a position.
func (s State) Stack(p Position) (StackEntry, bool) {
	for _, e := range s.Stacks {
		if e.Position == p {
			return e, true
		}
	}
	return StackEntry{}, false
}

// HeroComplete reports whether both hero cards have rank and suit.
func (s State) HeroComplete() bool {
	return s.HeroHand[0].IsComplete() && s.HeroHand[1].IsComplete()
}

// FlopComplete reports whether all three flop cards have rank and suit.
func (s State) FlopComplete() bool {
	for _, c := range s.FlopCards {
		if !c.IsComplete() {
			return false
		}
	}
	return true
}

// HasFlop reports whether any flop slot has been touched.
func (s State) HasFlop() bool {
	for _, c := range s.FlopCards {
		if !c.IsEmpty() {
			return true
		}
	}
	return false
}

// QuestionCount returns how many "?" entries the hand holds.
func (s State) QuestionCount() int {
	n := 0
	for _, e := range s.AllActions() {
		if e.IsQuestion {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Stacks = slices.Clone(s.Stacks)
	s.PreflopActions = slices.Clone(s.PreflopActions)
	s.FlopActions = slices.Clone(s.FlopActions)
	s.TurnActions = slices.Clone(s.TurnActions)
	s.RiverActions = slices.Clone(s.RiverActions)
	return s
}

// Check verifies the invariants that must hold after every transition and
// returns the first violation found.
func (s State) Check() error {
	seen := make(map[deck.Card]Slot)
	for _, slot := range AllSlots {
		c, _ := s.Card(slot)
		if !c.IsComplete() {
			continue
		}
		if other, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s in both %s and %s", ErrCardUnavailable, c, other, slot)
		}
		seen[c] = slot
	}

	positions := PositionsFor(s.PlayerCount)
	if s.PlayerCount < MinPlayers || s.PlayerCount > MaxPlayers {
		return fmt.Errorf("%w: player count %d", ErrInvariant, s.PlayerCount)
	}
	if len(s.Stacks) != len(positions) {
		return fmt.Errorf("%w: %d stacks for %d seats", ErrInvariant, len(s.Stacks), len(positions))
	}
	heroes := 0
	for i, e := range s.Stacks {
		if e.Position != positions[i] {
			return fmt.Errorf("%w: stack %d is %s, want %s", ErrInvariant, i, e.Position, positions[i])
		}
		if e.Stack < 0 || e.Stack > MaxStack {
			return fmt.Errorf("%w: %s stack %.1f out of range", ErrInvariant, e.Position, e.Stack)
		}
		if e.IsHero {
			heroes++
			if e.Position != s.HeroPosition {
				return fmt.Errorf("%w: hero flag on %s but hero is %s", ErrInvariant, e.Position, s.HeroPosition)
			}
		}
	}
	if heroes != 1 {
		return fmt.Errorf("%w: %d hero stacks", ErrInvariant, heroes)
	}

	if want := PotSize(s); s.PotSize != want {
		return fmt.Errorf("%w: pot %.2f, actions imply %.2f", ErrInvariant, s.PotSize, want)
	}
	return nil
}
