package deck

// All returns the 52 distinct cards in picker order: ranks from Ace down,
// each rank in the order hearts, diamonds, spades, clubs.
func All() []Card {
	cards := make([]Card, 0, len(Ranks)*len(Suits))
	for _, rank := range Ranks {
		for _, suit := range Suits {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Without returns the cards of All that are not in used, preserving order.
func Without(used map[Card]bool) []Card {
	all := All()
	out := all[:0]
	for _, c := range all {
		if !used[c] {
			out = append(out, c)
		}
	}
	return out
}
