package common

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a user-typed amount such as "12.50" or "1,000"
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, NewUserError("Amount must be a number like 10 or 12.50.", err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, NewUserError("Amount must be positive.", nil)
	}
	return amount, nil
}
