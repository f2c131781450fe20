package hand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionsFor(t *testing.T) {
	tests := []struct {
		players int
		want    []Position
	}{
		{2, []Position{SB, BB}},
		{3, []Position{BTN, SB, BB}},
		{4, []Position{BTN, SB, BB, CO}},
		{5, []Position{BTN, SB, BB, UTG, CO}},
		{6, []Position{BTN, SB, BB, UTG, MP, CO}},
		{7, []Position{BTN, SB, BB, UTG, UTG1, MP, CO}},
		{8, []Position{BTN, SB, BB, UTG, UTG1, MP, HJ, CO}},
		{9, []Position{BTN, SB, BB, UTG, UTG1, MP, MP1, HJ, CO}},
		{1, []Position{BTN, SB, BB, UTG, MP, CO}},
		{10, []Position{BTN, SB, BB, UTG, MP, CO}},
		{0, []Position{BTN, SB, BB, UTG, MP, CO}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PositionsFor(tt.players), "players=%d", tt.players)
	}
}

func TestPositionsForReturnsCopy(t *testing.T) {
	got := PositionsFor(6)
	got[0] = CO
	assert.Equal(t, BTN, PositionsFor(6)[0])
}

func TestParsePosition(t *testing.T) {
	for in, want := range map[string]Position{
		"btn": BTN, "UTG+1": UTG1, "utg1": UTG1, "mp1": MP1, " co ": CO,
	} {
		got, err := ParsePosition(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParsePosition("LJ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestAvailablePositionsExcludesFolds(t *testing.T) {
	s := NewState()
	var err error

	s, _, err = s.AddAction(Preflop, ActionEntry{Position: UTG, Action: Fold})
	require.NoError(t, err)
	s, _, err = s.AddAction(Preflop, ActionEntry{Position: MP, Action: Raise, Amount: 2.5})
	require.NoError(t, err)
	assert.Equal(t, []Position{BTN, SB, BB, MP, CO}, AvailablePositions(s))

	s, _, err = s.AddAction(Flop, ActionEntry{Position: BB, Action: Fold})
	require.NoError(t, err)
	assert.Equal(t, []Position{BTN, SB, MP, CO}, AvailablePositions(s))

	// Folded seats stay gone after unrelated edits.
	s, err = s.SetStack(BTN, 40)
	require.NoError(t, err)
	s, err = s.RemoveAction(Preflop, 1)
	require.NoError(t, err)
	s, err = s.SetHeroPosition(BTN)
	require.NoError(t, err)
	available := AvailablePositions(s)
	assert.NotContains(t, available, UTG)
	assert.NotContains(t, available, BB)

	// Historical entries are retained verbatim.
	assert.Equal(t, ActionEntry{Position: UTG, Action: Fold}, s.PreflopActions[0])
}
