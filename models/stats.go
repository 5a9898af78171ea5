package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameHistoryEntry is one round joined with its bet and payout
type GameHistoryEntry struct {
	GameID     int64
	GameType   GameType
	Status     GameStatus
	GameResult []byte
	StartedAt  time.Time
	EndedAt    *time.Time
	BetType    string
	BetValue   string
	Stake      decimal.Decimal
	WinAmount  *decimal.Decimal // nil until settled
	Outcome    *PayoutOutcome   // nil until settled
}

// GameStats aggregates a user's settled rounds over a period
type GameStats struct {
	Days         int
	TotalGames   int64
	TotalStaked  decimal.Decimal
	TotalPaidOut decimal.Decimal
	Wins         int64
	Losses       int64
	Pushes       int64
}

// WinRate is the percentage of settled bets that won
func (s *GameStats) WinRate() float64 {
	settled := s.Wins + s.Losses + s.Pushes
	if settled == 0 {
		return 0
	}
	return float64(s.Wins) / float64(settled) * 100
}

// Profit is the net result for the player
func (s *GameStats) Profit() decimal.Decimal {
	return s.TotalPaidOut.Sub(s.TotalStaked)
}
