package session

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/history"
	"github.com/lox/handcoach/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	return New(logger, history.Japanese)
}

func mustApply(t *testing.T, s *Session, intents ...Intent) Result {
	t.Helper()
	var res Result
	for _, in := range intents {
		var err error
		res, err = s.Apply(in)
		require.NoError(t, err, in.String())
	}
	return res
}

func TestNewSession(t *testing.T) {
	s := newTestSession()
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, wizard.BasicInfo, s.Step())
	assert.Equal(t, hand.NewState(), s.State())
	assert.NotEqual(t, s.ID(), newTestSession().ID())
}

func TestQuestionSnapshotIsPostMutation(t *testing.T) {
	s := newTestSession()
	mustApply(t, s,
		Intent{Type: SetCard, Slot: "hero1", Card: "As"},
		Intent{Type: SetCard, Slot: "hero2", Card: "Ks"},
		Intent{Type: Next},
		Intent{Type: AddAction, Position: "CO", Action: "raise", Amount: 3},
	)

	res, err := s.Apply(Intent{Type: AddAction, Position: "BB", Action: "?"})
	require.NoError(t, err)
	assert.True(t, res.Question)
	assert.Contains(t, res.Snapshot, "  - CO(Hero): raise 3.0BB\n  - BB: 分析を求める\n")
	assert.Equal(t, s.Preview(), res.Snapshot)

	other, err := s.Apply(Intent{Type: AddAction, Position: "BB", Action: "call", Amount: 2})
	require.NoError(t, err)
	assert.False(t, other.Question)
	assert.Empty(t, other.Snapshot)
}

func TestAddActionUsesCurrentStepStreet(t *testing.T) {
	s := newTestSession()
	mustApply(t, s,
		Intent{Type: SetCard, Slot: "h1", Card: "Qh"},
		Intent{Type: SetCard, Slot: "h2", Card: "Qd"},
		Intent{Type: Next},
		Intent{Type: Next},
	)
	require.Equal(t, wizard.FlopStep, s.Step())

	res := mustApply(t, s, Intent{Type: AddAction, Position: "SB", Action: "check"})
	assert.Len(t, res.State.FlopActions, 1)

	// An explicit street overrides the step.
	res = mustApply(t, s, Intent{Type: AddAction, Street: "preflop", Position: "UTG", Action: "fold"})
	assert.Len(t, res.State.PreflopActions, 1)
	assert.NotContains(t, hand.AvailablePositions(res.State), hand.UTG)

	s = newTestSession()
	_, err := s.Apply(Intent{Type: AddAction, Position: "SB", Action: "check"})
	assert.ErrorIs(t, err, hand.ErrUnknownStreet)
}

func TestRejectedIntentLeavesStateUnchanged(t *testing.T) {
	s := newTestSession()
	mustApply(t, s, Intent{Type: SetCard, Slot: "hero1", Card: "As"})
	before := s.State()

	tests := []struct {
		name   string
		intent Intent
		check  func(t *testing.T, err error)
	}{
		{"duplicate card", Intent{Type: SetCard, Slot: "flop1", Card: "As"}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, hand.ErrCardUnavailable)
		}},
		{"bad card", Intent{Type: SetCard, Slot: "flop1", Card: "Zz"}, func(t *testing.T, err error) {
			assert.True(t, hand.IsValidation(err))
		}},
		{"bad slot", Intent{Type: SetCard, Slot: "flop4", Card: "2c"}, func(t *testing.T, err error) {
			assert.True(t, hand.IsValidation(err))
		}},
		{"raise without amount", Intent{Type: AddAction, Street: "preflop", Position: "CO", Action: "raise"}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, hand.ErrAmountRequired)
		}},
		{"hero off table", Intent{Type: SetHeroPosition, Position: "HJ"}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, hand.ErrPositionNotInTable)
		}},
		{"guard", Intent{Type: Next}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, wizard.ErrGuard)
		}},
		{"future step", Intent{Type: Jump, Step: 3}, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, wizard.ErrUnvisited)
		}},
		{"unknown intent", Intent{Type: "shuffle"}, func(t *testing.T, err error) {
			assert.True(t, hand.IsValidation(err))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Apply(tt.intent)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, before, s.State())
			assert.Equal(t, before, res.State)
			assert.Equal(t, wizard.BasicInfo, s.Step())
		})
	}
}

func TestSubmit(t *testing.T) {
	s := newTestSession()
	_, err := s.Submit()
	require.ErrorIs(t, err, ErrNotOnReview)

	mustApply(t, s,
		Intent{Type: SetCard, Slot: "hero1", Card: "As"},
		Intent{Type: SetCard, Slot: "hero2", Card: "Ks"},
		Intent{Type: Next},
		Intent{Type: Next},
		Intent{Type: SetCard, Slot: "flop1", Card: "Ah"},
		Intent{Type: SetCard, Slot: "flop2", Card: "7d"},
		Intent{Type: SetCard, Slot: "flop3", Card: "2c"},
		Intent{Type: Next},
		Intent{Type: SetCard, Slot: "turn", Card: "Kd"},
		Intent{Type: Next},
		Intent{Type: SetCard, Slot: "river", Card: "3s"},
		Intent{Type: Next},
	)
	require.Equal(t, wizard.Review, s.Step())

	doc, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, s.Preview(), doc)
	assert.Contains(t, doc, "- リバーのボードカード: 3s\n")

	_, err = s.Apply(Intent{Type: Next})
	assert.ErrorIs(t, err, wizard.ErrTerminal)

	res := mustApply(t, s, Intent{Type: Jump, Step: 2})
	assert.Equal(t, wizard.PreflopStep, res.Step)
	res = mustApply(t, s, Intent{Type: Back}, Intent{Type: Back})
	assert.Equal(t, wizard.BasicInfo, res.Step)
}

func TestResizeAndReset(t *testing.T) {
	s := newTestSession()
	mustApply(t, s,
		Intent{Type: SetStack, Position: "btn", Stack: 35},
		Intent{Type: SetHeroPosition, Position: "UTG"},
	)

	res := mustApply(t, s, Intent{Type: SetPlayerCount, Delta: -3})
	assert.Equal(t, 3, res.State.PlayerCount)
	assert.Equal(t, hand.BB, res.State.HeroPosition)
	assert.Equal(t, hand.DefaultStacks(3, hand.BB), res.State.Stacks)

	res = mustApply(t, s, Intent{Type: Reset})
	assert.Equal(t, hand.NewState(), res.State)
	assert.Equal(t, wizard.BasicInfo, res.Step)
}

func TestRemoveActionIntent(t *testing.T) {
	s := newTestSession()
	mustApply(t, s,
		Intent{Type: AddAction, Street: "turn", Position: "CO", Action: "bet", Amount: 4},
		Intent{Type: AddAction, Street: "turn", Position: "BTN", Action: "call", Amount: 4},
	)
	assert.Equal(t, 10.5, s.State().PotSize)

	res := mustApply(t, s, Intent{Type: RemoveAction, Street: "turn", Index: 0})
	assert.Equal(t, 6.5, res.State.PotSize)
	assert.Equal(t, hand.BTN, res.State.TurnActions[0].Position)
}
