package models

import (
	"time"
)

// GameType identifies which game a round belongs to
type GameType string

const (
	GameTypeCoinflip  GameType = "coinflip"
	GameTypeRoulette  GameType = "roulette"
	GameTypeBlackjack GameType = "blackjack"
)

// GameTypes lists every supported game
var GameTypes = []GameType{GameTypeCoinflip, GameTypeRoulette, GameTypeBlackjack}

// Valid reports whether t is a supported game
func (t GameType) Valid() bool {
	switch t {
	case GameTypeCoinflip, GameTypeRoulette, GameTypeBlackjack:
		return true
	default:
		return false
	}
}

// GameStatus is the lifecycle state of a round
type GameStatus string

const (
	GameStatusActive    GameStatus = "ACTIVE"
	GameStatusCompleted GameStatus = "COMPLETED"
	GameStatusCancelled GameStatus = "CANCELLED"
)

// Game is one played round. GameState is set only while ACTIVE
// (blackjack), GameResult only once COMPLETED.
type Game struct {
	GameID     int64      `db:"game_id"`
	UserID     int64      `db:"user_id"`
	RuleSetID  *int64     `db:"rule_set_id"`
	GameType   GameType   `db:"game_type"`
	Status     GameStatus `db:"status"`
	GameState  []byte     `db:"game_state"`
	GameResult []byte     `db:"game_result"`
	StartedAt  time.Time  `db:"started_at"`
	EndedAt    *time.Time `db:"ended_at"`
}

// IsActive reports whether the round can still change
func (g *Game) IsActive() bool {
	return g.Status == GameStatusActive
}
