package common

import (
	"fmt"
	"strings"
	"time"

	"wagerledger/games"
	"wagerledger/models"

	"github.com/shopspring/decimal"
)

// FormatBalance formats an amount with two decimals and thousand separators
func FormatBalance(amount decimal.Decimal) string {
	str := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign = "-"
		str = str[1:]
	}

	whole, frac, _ := strings.Cut(str, ".")

	// Add commas for thousands
	n := len(whole)
	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	result.WriteRune('.')
	result.WriteString(frac)

	return result.String()
}

// FormatMoney formats an amount followed by its currency code
func FormatMoney(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", FormatBalance(amount), currency)
}

var suitSymbols = map[games.Suit]string{
	games.Hearts:   "♥",
	games.Diamonds: "♦",
	games.Clubs:    "♣",
	games.Spades:   "♠",
}

// FormatCard renders a card as rank and suit symbol, e.g. "10♥"
func FormatCard(card games.Card) string {
	symbol, ok := suitSymbols[card.Suit]
	if !ok {
		symbol = string(card.Suit)
	}
	return string(card.Rank) + symbol
}

// FormatHand renders the cards of a hand, appending a face-down card when hidden is set
func FormatHand(hand games.Hand, hidden bool) string {
	parts := make([]string, 0, len(hand)+1)
	for _, card := range hand {
		parts = append(parts, "`"+FormatCard(card)+"`")
	}
	if hidden {
		parts = append(parts, "`??`")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// FormatOutcome gives the headline for a settled round
func FormatOutcome(outcome models.PayoutOutcome) string {
	switch outcome {
	case models.PayoutOutcomeWin:
		return "🎉 **You won!**"
	case models.PayoutOutcomePush:
		return "🤝 **Push.** Your stake was returned"
	default:
		return "😔 **You lost!**"
	}
}

// FormatBlackjackOutcome describes how a hand finished
func FormatBlackjackOutcome(outcome games.BlackjackOutcome) string {
	switch outcome {
	case games.BlackjackNatural:
		return "🃏 **Blackjack!**"
	case games.BlackjackWin:
		return "🎉 **You beat the dealer!**"
	case games.BlackjackPush:
		return "🤝 **Push.** Your stake was returned"
	case games.BlackjackBust:
		return "💥 **Bust!**"
	default:
		return "😔 **Dealer wins.**"
	}
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
