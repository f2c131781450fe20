package hand

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/handcoach/internal/deck"
)

// Transitions. Each takes the current state by value and returns the next
// one; on error the returned state is the receiver, unchanged.

// SetPlayerCount moves the player count by delta, clamped to 2..9. Stacks
// are rebuilt at 100BB for the new table. The hero keeps their seat if it
// still exists, otherwise moves to the table's last seat.
func (s State) SetPlayerCount(delta int) State {
	count := min(max(s.PlayerCount+delta, MinPlayers), MaxPlayers)
	if count == s.PlayerCount {
		return s
	}

	positions := PositionsFor(count)
	hero := s.HeroPosition
	if !slices.Contains(positions, hero) {
		hero = positions[len(positions)-1]
	}

	next := s.Clone()
	next.PlayerCount = count
	next.HeroPosition = hero
	next.Stacks = DefaultStacks(count, hero)
	return next
}

// SetStack replaces one seat's stack, clamped to 0..MaxStack.
func (s State) SetStack(p Position, value float64) (State, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return s, fmt.Errorf("%w: got %v", ErrInvalidStack, value)
	}
	idx := slices.IndexFunc(s.Stacks, func(e StackEntry) bool { return e.Position == p })
	if idx < 0 {
		return s, fmt.Errorf("%w %q: not seated at %d players", ErrUnknownPosition, p, s.PlayerCount)
	}

	next := s.Clone()
	next.Stacks[idx].Stack = min(max(value, 0), MaxStack)
	return next, nil
}

// SetHeroPosition moves the hero to p, which must be a seat of the current table.
func (s State) SetHeroPosition(p Position) (State, error) {
	if !slices.Contains(PositionsFor(s.PlayerCount), p) {
		return s, fmt.Errorf("%w: %s at %d players", ErrPositionNotInTable, p, s.PlayerCount)
	}

	next := s.Clone()
	next.HeroPosition = p
	for i := range next.Stacks {
		next.Stacks[i].IsHero = next.Stacks[i].Position == p
	}
	return next, nil
}

// SetCard puts c into slot. A complete card must not already be in another
// slot. Partial and empty cards skip the ledger; an empty card clears the slot.
func (s State) SetCard(slot Slot, c deck.Card) (State, error) {
	if !slot.Valid() {
		return s, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	ledger := NewLedger(s)
	if err := ledger.Assign(slot, c); err != nil {
		return s, fmt.Errorf("set %s: %w", slot, err)
	}
	return s.withCard(slot, c), nil
}

// ClearCard empties a slot.
func (s State) ClearCard(slot Slot) (State, error) {
	return s.SetCard(slot, deck.Card{})
}

// AddAction appends an entry to a street's log and recomputes the pot. The
// stored entry is returned so callers can check IsQuestion.
func (s State) AddAction(street Street, entry ActionEntry) (State, ActionEntry, error) {
	if !street.Valid() {
		return s, ActionEntry{}, fmt.Errorf("%w: %d", ErrUnknownStreet, street)
	}
	entry, err := entry.Normalize()
	if err != nil {
		return s, ActionEntry{}, err
	}
	if !slices.Contains(PositionsFor(s.PlayerCount), entry.Position) {
		return s, ActionEntry{}, fmt.Errorf("%w %q: not seated at %d players", ErrUnknownPosition, entry.Position, s.PlayerCount)
	}

	next := s.Clone()
	next = next.withActions(street, append(next.Actions(street), entry))
	next.PotSize = PotSize(next)
	return next, entry, nil
}

// RemoveAction deletes the entry at index from a street's log and
// recomputes the pot.
func (s State) RemoveAction(street Street, index int) (State, error) {
	if !street.Valid() {
		return s, fmt.Errorf("%w: %d", ErrUnknownStreet, street)
	}
	actions := s.Actions(street)
	if index < 0 || index >= len(actions) {
		return s, fmt.Errorf("%w: %s has %d actions, got index %d", ErrActionIndex, street, len(actions), index)
	}

	next := s.Clone()
	next = next.withActions(street, slices.Delete(next.Actions(street), index, index+1))
	next.PotSize = PotSize(next)
	return next, nil
}
