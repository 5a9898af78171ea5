package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleSet groups payout rules; at most one is active
type RuleSet struct {
	RuleSetID int64     `db:"rule_set_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Rule maps a rule type to a stringified numeric parameter
type Rule struct {
	RuleID    int64  `db:"rule_id"`
	RuleSetID int64  `db:"rule_set_id"`
	RuleType  string `db:"rule_type"`
	RuleParam string `db:"rule_param"`
}

// RuleSnapshot is the frozen value a game was settled with
type RuleSnapshot struct {
	SnapshotID int64           `db:"snapshot_id"`
	GameID     int64           `db:"game_id"`
	RuleSetID  *int64          `db:"rule_set_id"`
	RuleType   string          `db:"rule_type"`
	RuleValue  decimal.Decimal `db:"rule_value"`
	CreatedAt  time.Time       `db:"created_at"`
}
