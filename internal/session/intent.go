package session

import (
	"fmt"

	"github.com/lox/handcoach/internal/deck"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/wizard"
)

// IntentType names a user intent.
type IntentType string

const (
	SetPlayerCount  IntentType = "set_player_count"
	SetStack        IntentType = "set_stack"
	SetHeroPosition IntentType = "set_hero_position"
	SetCard         IntentType = "set_card"
	ClearCard       IntentType = "clear_card"
	AddAction       IntentType = "add_action"
	RemoveAction    IntentType = "remove_action"
	Next            IntentType = "next"
	Back            IntentType = "back"
	Jump            IntentType = "jump"
	Reset           IntentType = "reset"
)

// Intent is one discrete user request. Only the fields the type uses are
// read; the JSON form is what WebSocket clients send.
type Intent struct {
	Type     IntentType `json:"type"`
	Delta    int        `json:"delta,omitempty"`
	Position string     `json:"position,omitempty"`
	Stack    float64    `json:"stack,omitempty"`
	Slot     string     `json:"slot,omitempty"`
	Card     string     `json:"card,omitempty"`
	Street   string     `json:"street,omitempty"`
	Action   string     `json:"action,omitempty"`
	Amount   float64    `json:"amount,omitempty"`
	Index    int        `json:"index,omitempty"`
	Step     int        `json:"step,omitempty"`
}

func (i Intent) String() string {
	switch i.Type {
	case SetPlayerCount:
		return fmt.Sprintf("%s %+d", i.Type, i.Delta)
	case SetStack:
		return fmt.Sprintf("%s %s %v", i.Type, i.Position, i.Stack)
	case SetHeroPosition:
		return fmt.Sprintf("%s %s", i.Type, i.Position)
	case SetCard:
		return fmt.Sprintf("%s %s %s", i.Type, i.Slot, i.Card)
	case ClearCard:
		return fmt.Sprintf("%s %s", i.Type, i.Slot)
	case AddAction:
		return fmt.Sprintf("%s %s %s %s %v", i.Type, i.Street, i.Position, i.Action, i.Amount)
	case RemoveAction:
		return fmt.Sprintf("%s %s %d", i.Type, i.Street, i.Index)
	case Jump:
		return fmt.Sprintf("%s %d", i.Type, i.Step)
	default:
		return string(i.Type)
	}
}

// apply computes the next state and step for the intent. It never touches
// the session.
func (i Intent) apply(s hand.State, m wizard.Machine) (hand.State, wizard.Machine, *hand.ActionEntry, error) {
	switch i.Type {
	case SetPlayerCount:
		return s.SetPlayerCount(i.Delta), m, nil, nil

	case SetStack:
		p, err := hand.ParsePosition(i.Position)
		if err != nil {
			return s, m, nil, err
		}
		next, err := s.SetStack(p, i.Stack)
		return next, m, nil, err

	case SetHeroPosition:
		p, err := hand.ParsePosition(i.Position)
		if err != nil {
			return s, m, nil, err
		}
		next, err := s.SetHeroPosition(p)
		return next, m, nil, err

	case SetCard, ClearCard:
		slot, err := hand.ParseSlot(i.Slot)
		if err != nil {
			return s, m, nil, err
		}
		var c deck.Card
		if i.Type == SetCard {
			if c, err = deck.ParsePartialCard(i.Card); err != nil {
				return s, m, nil, fmt.Errorf("%w: %w", hand.ErrValidation, err)
			}
		}
		next, err := s.SetCard(slot, c)
		return next, m, nil, err

	case AddAction:
		street, err := i.street(m)
		if err != nil {
			return s, m, nil, err
		}
		p, err := hand.ParsePosition(i.Position)
		if err != nil {
			return s, m, nil, err
		}
		a, err := hand.ParseActionType(i.Action)
		if err != nil {
			return s, m, nil, err
		}
		next, entry, err := s.AddAction(street, hand.ActionEntry{Position: p, Action: a, Amount: i.Amount})
		if err != nil {
			return s, m, nil, err
		}
		return next, m, &entry, nil

	case RemoveAction:
		street, err := i.street(m)
		if err != nil {
			return s, m, nil, err
		}
		next, err := s.RemoveAction(street, i.Index)
		return next, m, nil, err

	case Next:
		next, err := m.Next(s)
		return s, next, nil, err

	case Back:
		return s, m.Back(), nil, nil

	case Jump:
		next, err := m.Jump(wizard.Step(i.Step))
		return s, next, nil, err

	case Reset:
		return hand.NewState(), wizard.New(), nil, nil

	default:
		return s, m, nil, fmt.Errorf("%w: unknown intent %q", hand.ErrValidation, i.Type)
	}
}

// street resolves the intent's street, defaulting to the one the current
// step edits.
func (i Intent) street(m wizard.Machine) (hand.Street, error) {
	if i.Street != "" {
		return hand.ParseStreet(i.Street)
	}
	street, ok := m.Current().Street()
	if !ok {
		return 0, fmt.Errorf("%w: no street on the %s step", hand.ErrUnknownStreet, m.Current())
	}
	return street, nil
}
