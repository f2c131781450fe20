package hand

import (
	"fmt"
	"slices"
	"strings"
)

// Position is a named seat relative to the dealer button.
type Position string

const (
	BTN  Position = "BTN"
	SB   Position = "SB"
	BB   Position = "BB"
	UTG  Position = "UTG"
	UTG1 Position = "UTG+1"
	MP   Position = "MP"
	MP1  Position = "MP+1"
	HJ   Position = "HJ"
	CO   Position = "CO"
)

const (
	MinPlayers     = 2
	MaxPlayers     = 9
	DefaultPlayers = 6
)

// positionsByPlayerCount is the hand-authored seat table. Heads-up has no
// button seat: the small blind is on the button.
var positionsByPlayerCount = map[int][]Position{
	2: {SB, BB},
	3: {BTN, SB, BB},
	4: {BTN, SB, BB, CO},
	5: {BTN, SB, BB, UTG, CO},
	6: {BTN, SB, BB, UTG, MP, CO},
	7: {BTN, SB, BB, UTG, UTG1, MP, CO},
	8: {BTN, SB, BB, UTG, UTG1, MP, HJ, CO},
	9: {BTN, SB, BB, UTG, UTG1, MP, MP1, HJ, CO},
}

var allPositions = []Position{BTN, SB, BB, UTG, UTG1, MP, MP1, HJ, CO}

// PositionsFor returns the ordered seats for a player count. Counts outside
// 2..9 fall back to the 6-handed table.
func PositionsFor(playerCount int) []Position {
	positions, ok := positionsByPlayerCount[playerCount]
	if !ok {
		positions = positionsByPlayerCount[DefaultPlayers]
	}
	return slices.Clone(positions)
}

// Valid reports whether p is part of the position vocabulary.
func (p Position) Valid() bool {
	return slices.Contains(allPositions, p)
}

func (p Position) String() string {
	return string(p)
}

// ParsePosition parses a position name case-insensitively. "UTG1" and "MP1"
// are accepted for UTG+1 and MP+1.
func ParsePosition(s string) (Position, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "UTG1":
		name = string(UTG1)
	case "MP1":
		name = string(MP1)
	}
	p := Position(name)
	if !p.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownPosition, s)
	}
	return p, nil
}

// FoldedPositions returns every position with a fold anywhere in the hand.
func FoldedPositions(s State) map[Position]bool {
	folded := make(map[Position]bool)
	for _, street := range Streets {
		for _, entry := range s.Actions(street) {
			if entry.Action == Fold {
				folded[entry.Position] = true
			}
		}
	}
	return folded
}

// AvailablePositions returns the seats for the current player count minus
// any seat that has folded. Folded seats keep their recorded actions.
func AvailablePositions(s State) []Position {
	folded := FoldedPositions(s)
	base := PositionsFor(s.PlayerCount)
	out := base[:0]
	for _, p := range base {
		if !folded[p] {
			out = append(out, p)
		}
	}
	return out
}
