package service

import (
	"github.com/shopspring/decimal"
)

// BetLimits bounds a single stake, inclusive on both ends
type BetLimits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// DefaultBetLimits are used when no limits are configured
var DefaultBetLimits = BetLimits{
	Min: decimal.RequireFromString("0.01"),
	Max: decimal.RequireFromString("10000.00"),
}

// Validate checks that stake is a positive amount with at most two decimal
// places inside the limits
func (l BetLimits) Validate(stake decimal.Decimal) error {
	if !stake.IsPositive() {
		return invalidBet("stake must be positive")
	}
	if !stake.Equal(stake.Round(2)) {
		return invalidBet("stake %s has more than 2 decimal places", stake.String())
	}
	if stake.LessThan(l.Min) {
		return invalidBet("stake must be at least %s", l.Min.StringFixed(2))
	}
	if stake.GreaterThan(l.Max) {
		return invalidBet("stake must be at most %s", l.Max.StringFixed(2))
	}
	return nil
}
