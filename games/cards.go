package games

import (
	"fmt"
)

type Suit string

const (
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
	Spades   Suit = "S"
)

var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Card is a single playing card
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Valid reports whether the card has a known rank and suit
func (c Card) Valid() bool {
	return c.Rank.valid() && c.Suit.valid()
}

// Value returns the blackjack value with aces counted as 11
func (c Card) Value() int {
	switch c.Rank {
	case Jack, Queen, King, Ten:
		return 10
	case Ace:
		return 11
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	default:
		return 0
	}
}

func (r Rank) valid() bool {
	for _, rank := range Ranks {
		if r == rank {
			return true
		}
	}
	return false
}

func (s Suit) valid() bool {
	for _, suit := range Suits {
		if s == suit {
			return true
		}
	}
	return false
}

// Deck is an ordered pile of cards; cards are drawn from the end
type Deck []Card

// NewDeck returns an unshuffled 52-card deck
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// NewShuffledDeck returns a 52-card deck shuffled with r
func NewShuffledDeck(r Random) Deck {
	deck := NewDeck()
	deck.Shuffle(r)
	return deck
}

// Shuffle permutes the deck in place (Fisher-Yates via r.Shuffle)
func (d Deck) Shuffle(r Random) {
	r.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	if len(*d) == 0 {
		return Card{}, fmt.Errorf("deck is empty")
	}
	last := len(*d) - 1
	card := (*d)[last]
	*d = (*d)[:last]
	return card, nil
}
