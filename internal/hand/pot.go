package hand

import "math"

// Forced bets, in big blinds, present in every pot before any action.
const (
	SmallBlind = 0.5
	BigBlind   = 1.0
	Ante       = 1.0

	InitialForcedBets = BigBlind + SmallBlind + Ante
)

// PotSize derives the pot from the forced bets and every chip-committing
// action on every street. It is recomputed from scratch each time so it can
// never drift from the action logs. Amounts are summed in hundredths of a
// big blind so the result does not depend on action order.
func PotSize(s State) float64 {
	total := centiBB(InitialForcedBets)
	for _, street := range Streets {
		for _, entry := range s.Actions(street) {
			total += centiBB(entry.Committed())
		}
	}
	return float64(total) / 100
}

func centiBB(v float64) int64 {
	return int64(math.Round(v * 100))
}
