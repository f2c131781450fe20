package wizard

import (
	"testing"

	"github.com/lox/handcoach/internal/deck"
	"github.com/lox/handcoach/internal/hand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeHand(t *testing.T) hand.State {
	t.Helper()
	s := hand.NewState()
	cards := deck.MustParseCards("AsKsAh7d2cKd3s")
	for i, slot := range hand.AllSlots {
		var err error
		s, err = s.SetCard(slot, cards[i])
		require.NoError(t, err)
	}
	return s
}

func TestZeroMachineStartsAtBasicInfo(t *testing.T) {
	var m Machine
	assert.Equal(t, BasicInfo, m.Current())
	assert.Equal(t, BasicInfo, New().Current())
}

func TestNextWalksAllSteps(t *testing.T) {
	s := completeHand(t)
	m := New()
	for _, want := range Steps[1:] {
		var err error
		m, err = m.Next(s)
		require.NoError(t, err)
		assert.Equal(t, want, m.Current())
	}

	next, err := m.Next(s)
	require.ErrorIs(t, err, ErrTerminal)
	assert.Equal(t, Review, next.Current())
}

func TestGuards(t *testing.T) {
	full := completeHand(t)

	tests := []struct {
		step  Step
		slot  hand.Slot
		holds bool
	}{
		{BasicInfo, hand.HeroSlot(1), false},
		{PreflopStep, hand.FlopSlot(0), true},
		{FlopStep, hand.FlopSlot(2), false},
		{TurnStep, hand.TurnSlot(), false},
		{RiverStep, hand.RiverSlot(), false},
	}

	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			require.NoError(t, Guard(tt.step, full))

			// A card with only a rank does not satisfy a guard.
			partial, err := full.SetCard(tt.slot, deck.Card{Rank: deck.Queen})
			require.NoError(t, err)

			m := Machine{current: tt.step}
			next, err := m.Next(partial)
			if tt.holds {
				require.NoError(t, err)
				assert.Equal(t, tt.step+1, next.Current())
				return
			}
			require.ErrorIs(t, err, ErrGuard)
			assert.Equal(t, m, next)
		})
	}
}

func TestPreflopStepHasNoGuard(t *testing.T) {
	m := Machine{current: PreflopStep}
	next, err := m.Next(hand.NewState())
	require.NoError(t, err)
	assert.Equal(t, FlopStep, next.Current())
}

func TestBackClamps(t *testing.T) {
	m := New()
	assert.Equal(t, BasicInfo, m.Back().Current())

	m = Machine{current: TurnStep}
	assert.Equal(t, FlopStep, m.Back().Current())
}

func TestJump(t *testing.T) {
	m := Machine{current: RiverStep}

	for _, s := range []Step{BasicInfo, PreflopStep, FlopStep, TurnStep, RiverStep} {
		next, err := m.Jump(s)
		require.NoError(t, err)
		assert.Equal(t, s, next.Current())
		assert.True(t, m.Visited(s))
	}

	next, err := m.Jump(Review)
	require.ErrorIs(t, err, ErrUnvisited)
	assert.Equal(t, RiverStep, next.Current())
	assert.False(t, m.Visited(Review))

	_, err = m.Jump(Step(0))
	assert.ErrorIs(t, err, ErrUnvisited)
}

func TestStepStreet(t *testing.T) {
	street, ok := FlopStep.Street()
	assert.True(t, ok)
	assert.Equal(t, hand.Flop, street)

	_, ok = Review.Street()
	assert.False(t, ok)
	assert.Equal(t, "確認", Review.Title())
}
