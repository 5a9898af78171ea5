package games

// DealerStandsOn is the total at which the dealer stops drawing
const DealerStandsOn = 17

// BlackjackOutcome is how a finished hand ended for the player
type BlackjackOutcome string

const (
	BlackjackNatural BlackjackOutcome = "blackjack"
	BlackjackWin     BlackjackOutcome = "win"
	BlackjackPush    BlackjackOutcome = "push"
	BlackjackLose    BlackjackOutcome = "lose"
	BlackjackBust    BlackjackOutcome = "bust"
)

// PlayDealer draws to the dealer until the total reaches DealerStandsOn.
func PlayDealer(dealer Hand, deck *Deck) (Hand, error) {
	for dealer.Value() < DealerStandsOn {
		card, err := deck.Draw()
		if err != nil {
			return dealer, err
		}
		dealer = append(dealer, card)
	}
	return dealer, nil
}

// DetermineOutcome compares two finished hands
func DetermineOutcome(player, dealer Hand) BlackjackOutcome {
	if player.IsBust() {
		return BlackjackBust
	}

	if player.IsNatural() {
		if dealer.IsNatural() {
			return BlackjackPush
		}
		return BlackjackNatural
	}

	playerValue := player.Value()
	dealerValue := dealer.Value()

	switch {
	case dealerValue > 21:
		return BlackjackWin
	case playerValue > dealerValue:
		return BlackjackWin
	case playerValue < dealerValue:
		return BlackjackLose
	default:
		return BlackjackPush
	}
}
