package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"wagerledger/games"

	"github.com/shopspring/decimal"
)

// ErrInvalidBlackjackState marks persisted state that cannot be resumed
var ErrInvalidBlackjackState = errors.New("invalid blackjack state")

// BlackjackState is the persisted in-progress hand. The dealer holds a
// single card until resolution; the second card is still in Deck.
type BlackjackState struct {
	Deck       games.Deck      `json:"deck"`
	PlayerHand games.Hand      `json:"player_hand"`
	DealerHand games.Hand      `json:"dealer_hand"`
	Stake      decimal.Decimal `json:"stake"`
	WalletID   int64           `json:"wallet_id"`
}

// Validate checks the state of an ACTIVE hand
func (s *BlackjackState) Validate() error {
	if !s.Stake.IsPositive() {
		return fmt.Errorf("%w: stake must be positive", ErrInvalidBlackjackState)
	}
	if s.WalletID <= 0 {
		return fmt.Errorf("%w: missing wallet", ErrInvalidBlackjackState)
	}
	if len(s.PlayerHand) < 2 {
		return fmt.Errorf("%w: player holds %d cards", ErrInvalidBlackjackState, len(s.PlayerHand))
	}
	if len(s.DealerHand) != 1 {
		return fmt.Errorf("%w: dealer holds %d cards", ErrInvalidBlackjackState, len(s.DealerHand))
	}
	if s.PlayerHand.IsBust() {
		return fmt.Errorf("%w: player hand is bust", ErrInvalidBlackjackState)
	}

	total := len(s.Deck) + len(s.PlayerHand) + len(s.DealerHand)
	if total != games.DeckSize {
		return fmt.Errorf("%w: %d cards in play", ErrInvalidBlackjackState, total)
	}

	seen := make(map[games.Card]bool, games.DeckSize)
	for _, pile := range [][]games.Card{s.Deck, s.PlayerHand, s.DealerHand} {
		for _, card := range pile {
			if !card.Valid() {
				return fmt.Errorf("%w: unknown card %q", ErrInvalidBlackjackState, card.String())
			}
			if seen[card] {
				return fmt.Errorf("%w: duplicate card %s", ErrInvalidBlackjackState, card)
			}
			seen[card] = true
		}
	}

	return nil
}

// EncodeBlackjackState serializes a state for the game_state column
func EncodeBlackjackState(state *BlackjackState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blackjack state: %w", err)
	}
	return data, nil
}

// DecodeBlackjackState parses and validates a persisted state
func DecodeBlackjackState(data []byte) (*BlackjackState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty state", ErrInvalidBlackjackState)
	}

	var state BlackjackState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlackjackState, err)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	return &state, nil
}
