package phh

import (
	"strings"

	"github.com/lox/handcoach/internal/deck"
)

// NormalizeCard converts a card to PHH notation. Cards without both a rank
// and a suit are unknown and render as "??".
func NormalizeCard(c deck.Card) string {
	if !c.IsComplete() {
		return "??"
	}
	return c.String()
}

// NormalizeCards concatenates cards in PHH notation, e.g. "Ah7d2c".
func NormalizeCards(cards []deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(NormalizeCard(c))
	}
	return b.String()
}
