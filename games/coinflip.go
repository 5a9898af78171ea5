package games

import (
	"fmt"
	"strings"
)

// CoinSide is one face of the coin
type CoinSide string

const (
	Heads CoinSide = "heads"
	Tails CoinSide = "tails"
)

// ParseCoinSide accepts "heads" or "tails", case-insensitively
func ParseCoinSide(value string) (CoinSide, error) {
	switch CoinSide(strings.ToLower(strings.TrimSpace(value))) {
	case Heads:
		return Heads, nil
	case Tails:
		return Tails, nil
	default:
		return "", fmt.Errorf("choice must be heads or tails, got %q", value)
	}
}

// FlipCoin draws heads or tails with equal probability
func FlipCoin(r Random) CoinSide {
	if r.Intn(2) == 0 {
		return Heads
	}
	return Tails
}
