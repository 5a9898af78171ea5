package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet is the single stake placed within a game
type Bet struct {
	BetID       int64           `db:"bet_id"`
	GameID      int64           `db:"game_id"`
	BetType     string          `db:"bet_type"`
	BetValue    string          `db:"bet_value"`
	StakeAmount decimal.Decimal `db:"stake_amount"`
	CreatedAt   time.Time       `db:"created_at"`
}

// PayoutOutcome is the resolved result of a bet
type PayoutOutcome string

const (
	PayoutOutcomeWin  PayoutOutcome = "WIN"
	PayoutOutcomeLoss PayoutOutcome = "LOSS"
	// PayoutOutcomePush returns the stake without profit
	PayoutOutcomePush PayoutOutcome = "PUSH"
)

// Payout is created exactly once per bet, together with any credit
type Payout struct {
	PayoutID  int64           `db:"payout_id"`
	BetID     int64           `db:"bet_id"`
	WinAmount decimal.Decimal `db:"win_amount"`
	Outcome   PayoutOutcome   `db:"outcome"`
	CreatedAt time.Time       `db:"created_at"`
}
