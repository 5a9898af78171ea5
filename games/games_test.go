package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hand(cards ...string) Hand {
	h := make(Hand, 0, len(cards))
	for _, c := range cards {
		h = append(h, Card{Rank: Rank(c[:len(c)-1]), Suit: Suit(c[len(c)-1:])})
	}
	return h
}

func TestNewDeck_HasEveryCardOnce(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	seen := make(map[Card]bool)
	for _, card := range deck {
		assert.True(t, card.Valid())
		assert.False(t, seen[card], "duplicate card %s", card)
		seen[card] = true
	}
}

func TestDeck_ShuffleKeepsCards(t *testing.T) {
	deck := NewShuffledDeck(NewRandom())
	require.Len(t, deck, DeckSize)
	assert.ElementsMatch(t, NewDeck(), deck)
}

func TestDeck_DrawFromEmpty(t *testing.T) {
	deck := Deck{}
	_, err := deck.Draw()
	assert.Error(t, err)
}

func TestHand_Value(t *testing.T) {
	tests := []struct {
		name     string
		hand     Hand
		expected int
	}{
		{"face cards", hand("KH", "QS"), 20},
		{"soft ace", hand("AH", "6D"), 17},
		{"natural", hand("AH", "KD"), 21},
		{"ace drops to one", hand("AH", "6D", "9C"), 16},
		{"two aces", hand("AH", "AD"), 12},
		{"three aces and nine", hand("AH", "AD", "AC", "9S"), 12},
		{"bust", hand("KH", "QS", "5D"), 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.hand.Value())
		})
	}
}

func TestHand_IsNatural(t *testing.T) {
	assert.True(t, hand("AS", "JH").IsNatural())
	assert.False(t, hand("7S", "7H", "7D").IsNatural())
	assert.False(t, hand("KS", "9H").IsNatural())
}

func TestPlayDealer_StandsOnSeventeen(t *testing.T) {
	// Cards are drawn from the end of the deck
	deck := Deck{{Rank: Ten, Suit: Clubs}, {Rank: Three, Suit: Clubs}, {Rank: Four, Suit: Clubs}}
	dealer, err := PlayDealer(hand("6H", "5D"), &deck)
	require.NoError(t, err)

	// 11 + 4 = 15, + 3 = 18
	assert.Equal(t, 18, dealer.Value())
	assert.Len(t, deck, 1)
}

func TestPlayDealer_AlreadyStanding(t *testing.T) {
	deck := Deck{{Rank: Two, Suit: Clubs}}
	dealer, err := PlayDealer(hand("KH", "7D"), &deck)
	require.NoError(t, err)
	assert.Len(t, dealer, 2)
	assert.Len(t, deck, 1)
}

func TestDetermineOutcome(t *testing.T) {
	tests := []struct {
		name     string
		player   Hand
		dealer   Hand
		expected BlackjackOutcome
	}{
		{"player natural", hand("AH", "KD"), hand("9C", "8S"), BlackjackNatural},
		{"both natural", hand("AH", "KD"), hand("AC", "QS"), BlackjackPush},
		{"dealer bust", hand("10H", "6D"), hand("10C", "6S", "9H"), BlackjackWin},
		{"player higher", hand("10H", "9D"), hand("10C", "7S"), BlackjackWin},
		{"dealer higher", hand("10H", "7D"), hand("10C", "QS"), BlackjackLose},
		{"equal totals", hand("10H", "8D"), hand("9C", "9S"), BlackjackPush},
		{"player bust", hand("10H", "8D", "5C"), hand("9C"), BlackjackBust},
		{"three card 21 vs dealer natural", hand("7H", "7D", "7C"), hand("AC", "KS"), BlackjackPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineOutcome(tt.player, tt.dealer))
		})
	}
}

func TestParseCoinSide(t *testing.T) {
	side, err := ParseCoinSide(" Heads ")
	require.NoError(t, err)
	assert.Equal(t, Heads, side)

	_, err = ParseCoinSide("edge")
	assert.Error(t, err)
}

func TestFlipCoin(t *testing.T) {
	assert.Equal(t, Heads, FlipCoin(&FixedRandom{Ints: []int{0}}))
	assert.Equal(t, Tails, FlipCoin(&FixedRandom{Ints: []int{1}}))
}

func TestRouletteColorsAndParity(t *testing.T) {
	assert.Equal(t, Green, ColorOf(0))
	assert.Equal(t, Red, ColorOf(7))
	assert.Equal(t, Black, ColorOf(8))
	assert.Equal(t, Red, ColorOf(36))
	assert.Equal(t, NoParity, ParityOf(0))
	assert.Equal(t, Odd, ParityOf(7))
	assert.Equal(t, Even, ParityOf(8))

	reds := 0
	for n := 1; n < RouletteSlots; n++ {
		if ColorOf(n) == Red {
			reds++
		}
	}
	assert.Equal(t, 18, reds)
}

func TestParseRouletteBet(t *testing.T) {
	bet, err := ParseRouletteBet("number", "07")
	require.NoError(t, err)
	assert.Equal(t, RouletteBet{Type: RouletteNumber, Value: "7"}, bet)

	bet, err = ParseRouletteBet("COLOR", "Red")
	require.NoError(t, err)
	assert.Equal(t, RouletteBet{Type: RouletteColor, Value: "red"}, bet)

	invalid := []struct{ betType, value string }{
		{"number", "37"},
		{"number", "-1"},
		{"number", "seven"},
		{"color", "green"},
		{"parity", "zero"},
		{"dozen", "1"},
	}
	for _, tc := range invalid {
		_, err := ParseRouletteBet(tc.betType, tc.value)
		assert.Error(t, err, "%s=%s", tc.betType, tc.value)
	}
}

func TestRouletteBet_Wins(t *testing.T) {
	red := RouletteBet{Type: RouletteColor, Value: "red"}
	assert.True(t, red.Wins(7))
	assert.False(t, red.Wins(8))
	assert.False(t, red.Wins(0))
	assert.True(t, red.Wins(36))
	assert.False(t, RouletteBet{Type: RouletteColor, Value: "black"}.Wins(36))

	even := RouletteBet{Type: RouletteParity, Value: "even"}
	assert.True(t, even.Wins(8))
	assert.False(t, even.Wins(0))

	zero := RouletteBet{Type: RouletteNumber, Value: "0"}
	assert.True(t, zero.Wins(0))
	assert.False(t, zero.Wins(10))
}

func TestSpinRoulette_InRange(t *testing.T) {
	r := NewRandom()
	for i := 0; i < 500; i++ {
		n := SpinRoulette(r)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, RouletteSlots)
	}
}
