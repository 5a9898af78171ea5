package models

import (
	"wagerledger/games"

	"github.com/shopspring/decimal"
)

// SettlementResult is what a single-shot wager returns to the caller
type SettlementResult struct {
	GameID     int64
	GameType   GameType
	Outcome    PayoutOutcome
	Stake      decimal.Decimal
	Payout     decimal.Decimal
	NewBalance decimal.Decimal
	Coinflip   *CoinflipResult
	Roulette   *RouletteResult
}

// BlackjackView is the player-facing projection of a blackjack hand. It
// never carries the deck or an undrawn dealer card.
type BlackjackView struct {
	GameID       int64
	Status       GameStatus
	PlayerHand   games.Hand
	DealerHand   games.Hand
	PlayerValue  int
	DealerValue  int
	DealerHidden bool
	Stake        decimal.Decimal
	// Set once the hand is COMPLETED
	Outcome    *games.BlackjackOutcome
	Payout     decimal.Decimal
	NewBalance decimal.Decimal
}

// CanAct reports whether Hit and Stand are still available
func (v *BlackjackView) CanAct() bool {
	return v.Status == GameStatusActive
}
