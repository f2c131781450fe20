package hand

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotKind identifies which group of card slots a Slot belongs to.
type SlotKind int

const (
	HeroCard SlotKind = iota
	FlopCard
	TurnCard
	RiverCard
)

// Slot names one of the seven card positions in a hand: two hero cards,
// three flop cards, the turn and the river.
type Slot struct {
	Kind  SlotKind
	Index int
}

func HeroSlot(i int) Slot { return Slot{Kind: HeroCard, Index: i} }
func FlopSlot(i int) Slot { return Slot{Kind: FlopCard, Index: i} }
func TurnSlot() Slot      { return Slot{Kind: TurnCard} }
func RiverSlot() Slot     { return Slot{Kind: RiverCard} }

// AllSlots lists every slot in display order.
var AllSlots = []Slot{
	HeroSlot(0), HeroSlot(1),
	FlopSlot(0), FlopSlot(1), FlopSlot(2),
	TurnSlot(), RiverSlot(),
}

// Valid reports whether the slot exists.
func (s Slot) Valid() bool {
	switch s.Kind {
	case HeroCard:
		return s.Index >= 0 && s.Index < 2
	case FlopCard:
		return s.Index >= 0 && s.Index < 3
	case TurnCard, RiverCard:
		return s.Index == 0
	default:
		return false
	}
}

// Street returns the street on which the slot's card becomes known.
func (s Slot) Street() Street {
	switch s.Kind {
	case FlopCard:
		return Flop
	case TurnCard:
		return Turn
	case RiverCard:
		return River
	default:
		return Preflop
	}
}

func (s Slot) String() string {
	switch s.Kind {
	case HeroCard:
		return fmt.Sprintf("hero%d", s.Index+1)
	case FlopCard:
		return fmt.Sprintf("flop%d", s.Index+1)
	case TurnCard:
		return "turn"
	case RiverCard:
		return "river"
	default:
		return "unknown"
	}
}

// ParseSlot parses names like "hero1", "h2", "flop3", "f1", "turn" or "river".
func ParseSlot(name string) (Slot, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "turn", "t":
		return TurnSlot(), nil
	case "river", "r":
		return RiverSlot(), nil
	}

	var prefix string
	switch {
	case strings.HasPrefix(n, "hero"), strings.HasPrefix(n, "flop"):
		prefix = n[:4]
	case strings.HasPrefix(n, "h"), strings.HasPrefix(n, "f"):
		prefix = n[:1]
	default:
		return Slot{}, fmt.Errorf("%w: unknown card slot %q", ErrValidation, name)
	}

	idx, err := strconv.Atoi(n[len(prefix):])
	if err != nil {
		return Slot{}, fmt.Errorf("%w: unknown card slot %q", ErrValidation, name)
	}
	slot := FlopSlot(idx - 1)
	if prefix[0] == 'h' {
		slot = HeroSlot(idx - 1)
	}
	if !slot.Valid() {
		return Slot{}, fmt.Errorf("%w: unknown card slot %q", ErrValidation, name)
	}
	return slot, nil
}
