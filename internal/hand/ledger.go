package hand

import (
	"fmt"

	"github.com/lox/handcoach/internal/deck"
)

// Ledger tracks which complete cards occupy which slots. Partial cards are
// never recorded.
type Ledger struct {
	bySlot map[Slot]deck.Card
	byCard map[deck.Card]Slot
}

// NewLedger derives a ledger from the cards currently in s.
func NewLedger(s State) *Ledger {
	l := &Ledger{
		bySlot: make(map[Slot]deck.Card),
		byCard: make(map[deck.Card]Slot),
	}
	for _, slot := range AllSlots {
		c, _ := s.Card(slot)
		if c.IsComplete() {
			l.bySlot[slot] = c
			l.byCard[c] = slot
		}
	}
	return l
}

// IsAvailable reports whether c can go into the editing slot: true unless
// some other slot already holds an equal card.
func (l *Ledger) IsAvailable(c deck.Card, editing Slot) bool {
	holder, used := l.byCard[c]
	return !used || holder == editing
}

// Assign places c into slot, releasing the slot's previous card. Assigning
// an unavailable card fails and leaves the ledger untouched.
func (l *Ledger) Assign(slot Slot, c deck.Card) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if !c.IsComplete() {
		l.Clear(slot)
		return nil
	}
	if !l.IsAvailable(c, slot) {
		return fmt.Errorf("%w: %s is in %s", ErrCardUnavailable, c, l.byCard[c])
	}
	l.Clear(slot)
	l.bySlot[slot] = c
	l.byCard[c] = slot
	return nil
}

// Clear removes the slot's card, if any.
func (l *Ledger) Clear(slot Slot) {
	if old, ok := l.bySlot[slot]; ok {
		delete(l.byCard, old)
		delete(l.bySlot, slot)
	}
}

// Holder returns the slot holding c.
func (l *Ledger) Holder(c deck.Card) (Slot, bool) {
	slot, ok := l.byCard[c]
	return slot, ok
}

// Used returns the set of cards in use.
func (l *Ledger) Used() map[deck.Card]bool {
	used := make(map[deck.Card]bool, len(l.byCard))
	for c := range l.byCard {
		used[c] = true
	}
	return used
}

// Len returns the number of cards in use.
func (l *Ledger) Len() int {
	return len(l.byCard)
}

// AvailableCards lists, in picker order, every card that may be placed into
// the editing slot.
func AvailableCards(s State, editing Slot) []deck.Card {
	l := NewLedger(s)
	var out []deck.Card
	for _, c := range deck.All() {
		if l.IsAvailable(c, editing) {
			out = append(out, c)
		}
	}
	return out
}
