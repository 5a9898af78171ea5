package games

// Hand is the cards held by the player or the dealer
type Hand []Card

// Value returns the best blackjack total: aces count 11 and drop to 1,
// one at a time, while the total exceeds 21.
func (h Hand) Value() int {
	total := 0
	aces := 0
	for _, card := range h {
		total += card.Value()
		if card.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsNatural reports a two-card 21
func (h Hand) IsNatural() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust reports a total over 21
func (h Hand) IsBust() bool {
	return h.Value() > 21
}
