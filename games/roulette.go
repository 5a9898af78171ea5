package games

import (
	"fmt"
	"strconv"
	"strings"
)

// RouletteSlots is the number of pockets on a single-zero wheel
const RouletteSlots = 37

type RouletteBetType string

const (
	RouletteNumber RouletteBetType = "number"
	RouletteColor  RouletteBetType = "color"
	RouletteParity RouletteBetType = "parity"
)

// Color is a pocket colour
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

type Parity string

const (
	Odd  Parity = "odd"
	Even Parity = "even"
	// Zero has no parity
	NoParity Parity = "none"
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf returns the pocket colour of n
func ColorOf(n int) Color {
	if n == 0 {
		return Green
	}
	if redNumbers[n] {
		return Red
	}
	return Black
}

// ParityOf returns the parity of n, NoParity for zero
func ParityOf(n int) Parity {
	if n == 0 {
		return NoParity
	}
	if n%2 == 0 {
		return Even
	}
	return Odd
}

// SpinRoulette draws a pocket uniformly from 0-36
func SpinRoulette(r Random) int {
	return r.Intn(RouletteSlots)
}

// RouletteBet is a validated roulette wager selection
type RouletteBet struct {
	Type  RouletteBetType
	Value string
}

// ParseRouletteBet validates the bet value for its bet type and normalizes it
func ParseRouletteBet(betType, value string) (RouletteBet, error) {
	value = strings.ToLower(strings.TrimSpace(value))

	switch RouletteBetType(strings.ToLower(betType)) {
	case RouletteNumber:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n >= RouletteSlots {
			return RouletteBet{}, fmt.Errorf("number must be an integer from 0 to 36, got %q", value)
		}
		return RouletteBet{Type: RouletteNumber, Value: strconv.Itoa(n)}, nil
	case RouletteColor:
		if value != string(Red) && value != string(Black) {
			return RouletteBet{}, fmt.Errorf("color must be red or black, got %q", value)
		}
		return RouletteBet{Type: RouletteColor, Value: value}, nil
	case RouletteParity:
		if value != string(Odd) && value != string(Even) {
			return RouletteBet{}, fmt.Errorf("parity must be odd or even, got %q", value)
		}
		return RouletteBet{Type: RouletteParity, Value: value}, nil
	default:
		return RouletteBet{}, fmt.Errorf("unknown roulette bet type %q", betType)
	}
}

// Wins reports whether the bet wins on the given pocket
func (b RouletteBet) Wins(number int) bool {
	switch b.Type {
	case RouletteNumber:
		return b.Value == strconv.Itoa(number)
	case RouletteColor:
		return string(ColorOf(number)) == b.Value
	case RouletteParity:
		return string(ParityOf(number)) == b.Value
	default:
		return false
	}
}
