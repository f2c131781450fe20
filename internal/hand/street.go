package hand

import (
	"fmt"
	"strings"
)

// Street is one of the four betting rounds.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

// Streets lists the betting rounds in the order they are played.
var Streets = []Street{Preflop, Flop, Turn, River}

// String returns the lower-case street name
func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the four streets.
func (s Street) Valid() bool {
	return s >= Preflop && s <= River
}

// ParseStreet parses a street name.
func ParseStreet(name string) (Street, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "preflop", "pre-flop", "pf":
		return Preflop, nil
	case "flop":
		return Flop, nil
	case "turn":
		return Turn, nil
	case "river":
		return River, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownStreet, name)
	}
}
