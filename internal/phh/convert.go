package phh

import (
	"fmt"

	"github.com/lox/handcoach/internal/deck"
	"github.com/lox/handcoach/internal/hand"
)

// Variant is no-limit Texas hold'em.
const Variant = "NT"

// SeatOrder returns the table's positions in PHH player order: blinds
// first, button last.
func SeatOrder(playerCount int) []hand.Position {
	positions := hand.PositionsFor(playerCount)
	if positions[0] != hand.BTN {
		return positions
	}
	return append(positions[1:], hand.BTN)
}

// FromState converts an entered hand to PHH. Only the hero's hole cards are
// known; everyone else is dealt "????".
func FromState(s hand.State, id string) *HandHistory {
	order := SeatOrder(s.PlayerCount)
	index := make(map[hand.Position]int, len(order))
	for i, p := range order {
		index[p] = i
	}

	h := &HandHistory{
		Variant:           Variant,
		SeatCount:         len(order),
		Antes:             make([]float64, len(order)),
		BlindsOrStraddles: make([]float64, len(order)),
		MinBet:            hand.BigBlind,
		StartingStacks:    make([]float64, len(order)),
		Actions:           make([]string, 0, len(order)+len(s.AllActions())+3),
		Players:           make([]string, len(order)),
		HandID:            id,
		Metadata: map[string]any{
			"hero":      string(s.HeroPosition),
			"hero_seat": index[s.HeroPosition] + 1,
			"pot":       s.PotSize,
			"questions": s.QuestionCount(),
		},
	}

	for i, p := range order {
		h.Players[i] = string(p)
		if e, ok := s.Stack(p); ok {
			h.StartingStacks[i] = e.Stack
		}
		switch p {
		case hand.SB:
			h.BlindsOrStraddles[i] = hand.SmallBlind
		case hand.BB:
			h.BlindsOrStraddles[i] = hand.BigBlind
			h.Antes[i] = hand.Ante
		}
	}

	for i, p := range order {
		cards := "????"
		if p == s.HeroPosition {
			cards = NormalizeCards(s.HeroHand[:])
		}
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", i+1, cards))
	}

	boards := map[hand.Street][]deck.Card{
		hand.Flop:  s.FlopCards[:],
		hand.Turn:  {s.TurnCard},
		hand.River: {s.RiverCard},
	}
	for _, street := range hand.Streets {
		actions := s.Actions(street)
		if board, ok := boards[street]; ok {
			if !dealt(board) && len(actions) == 0 {
				continue
			}
			cards := NormalizeCards(board)
			h.Actions = append(h.Actions, "d db "+cards)
			h.Board = append(h.Board, cards)
		}
		for _, a := range actions {
			seat, ok := index[a.Position]
			if !ok {
				// seat removed by a later resize; keep it out of the numbered players
				h.Actions = append(h.Actions, unseatedAction(a))
				continue
			}
			h.Actions = append(h.Actions, FormatAction(seat, a))
		}
	}
	return h
}

func dealt(cards []deck.Card) bool {
	for _, c := range cards {
		if !c.IsEmpty() {
			return true
		}
	}
	return false
}
