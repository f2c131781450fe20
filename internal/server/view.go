package server

import (
	"github.com/lox/handcoach/internal/deck"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/session"
	"github.com/lox/handcoach/internal/wizard"
)

// NewStateData builds the client view of sess.
func NewStateData(sess *session.Session) StateData {
	s := sess.State()
	m := sess.Machine()
	step := m.Current()

	data := StateData{
		SessionID:    sess.ID(),
		Step:         int(step),
		StepName:     step.String(),
		StepTitle:    step.Title(),
		CanAdvance:   m.CanAdvance(s),
		PlayerCount:  s.PlayerCount,
		HeroPosition: string(s.HeroPosition),
		HeroHand:     cardStrings(s.HeroHand[:]),
		Flop:         cardStrings(s.FlopCards[:]),
		Turn:         cardString(s.TurnCard),
		River:        cardString(s.RiverCard),
		Pot:          s.PotSize,
		Actions:      make(map[string][]ActionData, len(hand.Streets)),
		Preview:      sess.Preview(),
	}

	for _, st := range wizard.Steps {
		if m.Visited(st) {
			data.Visited = append(data.Visited, int(st))
		}
	}
	for _, e := range s.Stacks {
		data.Stacks = append(data.Stacks, StackData{Position: string(e.Position), Stack: e.Stack, IsHero: e.IsHero})
	}
	for _, p := range hand.AvailablePositions(s) {
		data.Positions = append(data.Positions, string(p))
	}
	for _, street := range hand.Streets {
		actions := make([]ActionData, 0, len(s.Actions(street)))
		for _, a := range s.Actions(street) {
			actions = append(actions, ActionData{
				Position:   string(a.Position),
				Action:     string(a.Action),
				Amount:     a.Amount,
				IsQuestion: a.IsQuestion,
			})
		}
		data.Actions[street.String()] = actions
	}
	return data
}

func cardString(c deck.Card) string {
	if c.IsEmpty() {
		return ""
	}
	return c.String()
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = cardString(c)
	}
	return out
}
