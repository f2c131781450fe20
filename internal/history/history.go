// Package history renders a hand as the text document handed to the
// analysis service.
package history

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lox/handcoach/internal/deck"
	"github.com/lox/handcoach/internal/hand"
)

// Serialize renders s with the Japanese labels.
func Serialize(s hand.State) string {
	return SerializeWith(s, Japanese)
}

// SerializeWith renders s with the given labels. It reads s only and works
// on partially entered hands, so it doubles as the live preview.
//
// Sections appear in a fixed order and only when they have content: the
// setup header always, preflop when it has actions, and each later street
// once its board card (any flop card for the flop) has been touched. Every
// pot line prints s.PotSize as stored.
func SerializeWith(s hand.State, l Labels) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s\n\n", l.Preconditions)
	fmt.Fprintf(&b, "- %s: %s %s\n", l.HeroHand, s.HeroHand[0], s.HeroHand[1])
	fmt.Fprintf(&b, "- %s: %s\n", l.HeroPosition, s.HeroPosition)
	fmt.Fprintf(&b, "- %s: %d\n", l.PlayerCount, s.PlayerCount)
	fmt.Fprintf(&b, "- %s:\n", l.Stacks)
	for _, e := range s.Stacks {
		name := string(e.Position)
		if e.IsHero {
			name += l.HeroTag
		}
		fmt.Fprintf(&b, "  - %s: %sBB\n", name, formatBB(e.Stack))
	}
	fmt.Fprintf(&b, "- %s: %sBB\n", l.CurrentPot, formatBB(s.PotSize))

	if actions := s.Actions(hand.Preflop); len(actions) > 0 {
		fmt.Fprintf(&b, "\n### %s\n", l.street(hand.Preflop))
		writeActions(&b, s, l, hand.Preflop)
	}

	if s.HasFlop() {
		f := s.FlopCards
		writeBoard(&b, s, l, hand.Flop, fmt.Sprintf("%s %s %s", f[0], f[1], f[2]))
	}
	if !s.TurnCard.IsEmpty() {
		writeBoard(&b, s, l, hand.Turn, s.TurnCard.String())
	}
	if !s.RiverCard.IsEmpty() {
		writeBoard(&b, s, l, hand.River, s.RiverCard.String())
	}

	return b.String()
}

func writeBoard(b *strings.Builder, s hand.State, l Labels, street hand.Street, board string) {
	name := l.street(street)
	fmt.Fprintf(b, "\n### %s\n", name)
	fmt.Fprintf(b, "- %s: %s\n", fmt.Sprintf(l.BoardFormat, name), board)
	fmt.Fprintf(b, "- %s: %sBB\n", fmt.Sprintf(l.PotAtFormat, name), formatBB(s.PotSize))
	if len(s.Actions(street)) > 0 {
		writeActions(b, s, l, street)
	}
}

func writeActions(b *strings.Builder, s hand.State, l Labels, street hand.Street) {
	fmt.Fprintf(b, "- %s:\n", fmt.Sprintf(l.ActionsFormat, l.street(street)))
	for _, a := range s.Actions(street) {
		name := string(a.Position)
		if a.Position == s.HeroPosition {
			name += l.HeroTag
		}
		amount := ""
		if a.HasAmount() {
			amount = " " + formatBB(a.Amount) + "BB"
		}
		fmt.Fprintf(b, "  - %s: %s%s\n", name, l.action(a.Action), amount)
	}
}

// Board returns the board cards dealt so far, for display.
func Board(s hand.State) []deck.Card {
	var board []deck.Card
	for _, c := range s.FlopCards {
		if !c.IsEmpty() {
			board = append(board, c)
		}
	}
	for _, c := range []deck.Card{s.TurnCard, s.RiverCard} {
		if !c.IsEmpty() {
			board = append(board, c)
		}
	}
	return board
}

// formatBB prints v with one decimal, rounding exact halves away from zero
// (2.25 is "2.3") so documents match what the analysis prompts were tuned on.
func formatBB(v float64) string {
	if v < 0 {
		return "-" + formatBB(-v)
	}
	if q := v * 4; q == math.Trunc(q) && math.Mod(q, 2) == 1 {
		v = (math.Floor(v*10) + 1) / 10
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
