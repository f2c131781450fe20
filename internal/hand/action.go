package hand

import (
	"fmt"
	"math"
	"strings"
)

// ActionType is a recorded action. Question is the "?" sentinel marking the
// decision the user wants analysed; it is not a poker action.
type ActionType string

const (
	Fold     ActionType = "fold"
	Check    ActionType = "check"
	Call     ActionType = "call"
	Bet      ActionType = "bet"
	Raise    ActionType = "raise"
	AllIn    ActionType = "all-in"
	Question ActionType = "?"
)

// ActionTypes lists the selectable actions in picker order.
var ActionTypes = []ActionType{Fold, Check, Call, Bet, Raise, AllIn, Question}

// ParseActionType parses an action name. "allin" and "all_in" are accepted
// for all-in.
func ParseActionType(s string) (ActionType, error) {
	switch a := ActionType(strings.ToLower(strings.TrimSpace(s))); a {
	case Fold, Check, Call, Bet, Raise, AllIn, Question:
		return a, nil
	case "allin", "all_in":
		return AllIn, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownAction, s)
	}
}

// RequiresAmount reports whether the action cannot be recorded without a size.
func (a ActionType) RequiresAmount() bool {
	return a == Bet || a == Raise
}

// TakesAmount reports whether the action may carry a size at all.
func (a ActionType) TakesAmount() bool {
	return a == Bet || a == Raise || a == Call || a == AllIn
}

// CommitsChips reports whether the action's amount goes into the pot.
func (a ActionType) CommitsChips() bool {
	return a.TakesAmount()
}

// ActionEntry is one action on one street. Amount is in big blinds and zero
// means "no amount".
type ActionEntry struct {
	Position   Position
	Action     ActionType
	Amount     float64
	IsQuestion bool
}

// HasAmount reports whether the entry carries a size.
func (e ActionEntry) HasAmount() bool {
	return e.Amount > 0
}

// Committed returns the chips this entry puts into the pot.
func (e ActionEntry) Committed() float64 {
	if e.Action.CommitsChips() && e.Amount > 0 {
		return e.Amount
	}
	return 0
}

// Normalize validates e and returns the entry as it should be stored: amounts
// are dropped from actions that take none and IsQuestion is derived from the
// action.
func (e ActionEntry) Normalize() (ActionEntry, error) {
	if !e.Position.Valid() {
		return ActionEntry{}, fmt.Errorf("%w %q", ErrUnknownPosition, e.Position)
	}
	if _, err := ParseActionType(string(e.Action)); err != nil {
		return ActionEntry{}, err
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount < 0 {
		return ActionEntry{}, fmt.Errorf("%w: got %v", ErrInvalidAmount, e.Amount)
	}

	switch {
	case e.Action.RequiresAmount() && e.Amount == 0:
		return ActionEntry{}, fmt.Errorf("%w for %s", ErrAmountRequired, e.Action)
	case !e.Action.TakesAmount():
		e.Amount = 0
	}
	e.IsQuestion = e.Action == Question
	return e, nil
}
