package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. The zero value means the suit has not been
// chosen yet.
type Suit int

const (
	NoSuit Suit = iota
	Hearts
	Diamonds
	Spades
	Clubs
)

// Suits lists the four suits in selector order.
var Suits = []Suit{Hearts, Diamonds, Spades, Clubs}

// String returns the single-letter notation used in hand histories ("h", "d", "s", "c")
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Spades:
		return "s"
	case Clubs:
		return "c"
	default:
		return ""
	}
}

// Symbol returns the unicode glyph for the suit
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. The zero value means the rank has not been
// chosen yet.
type Rank int

const (
	NoRank Rank = 0
	Two    Rank = iota + 1
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists the thirteen ranks from Ace down, matching the card picker.
var Ranks = []Rank{Ace, King, Queen, Jack, Ten, Nine, Eight, Seven, Six, Five, Four, Three, Two}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return ""
	}
}

// Card is a (rank, suit) pair. Either half may be missing while the user is
// still picking; such a card is partial and IsComplete reports false.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// IsEmpty reports whether neither rank nor suit has been chosen.
func (c Card) IsEmpty() bool {
	return c.Rank == NoRank && c.Suit == NoSuit
}

// IsComplete reports whether both rank and suit are set.
func (c Card) IsComplete() bool {
	return c.Rank != NoRank && c.Suit != NoSuit
}

// String returns hand-history notation, e.g. "As". A missing rank renders
// as "?" and a missing suit renders as nothing, so a half-picked ace is "A".
func (c Card) String() string {
	rank := c.Rank.String()
	if rank == "" {
		rank = "?"
	}
	return rank + c.Suit.String()
}

// Pretty returns the card with its suit glyph (e.g. "A♠")
func (c Card) Pretty() string {
	rank := c.Rank.String()
	if rank == "" {
		rank = "?"
	}
	return rank + c.Suit.Symbol()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

var rankNames = map[string]Rank{
	"2": Two, "3": Three, "4": Four, "5": Five, "6": Six, "7": Seven,
	"8": Eight, "9": Nine, "t": Ten, "10": Ten, "j": Jack, "q": Queen,
	"k": King, "a": Ace,
}

var suitNames = map[string]Suit{
	"h": Hearts, "d": Diamonds, "s": Spades, "c": Clubs,
	"♥": Hearts, "♦": Diamonds, "♠": Spades, "♣": Clubs,
}

// ParseRank parses a rank such as "A", "t" or "10".
func ParseRank(s string) (Rank, error) {
	r, ok := rankNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return NoRank, fmt.Errorf("invalid rank %q", s)
	}
	return r, nil
}

// ParseSuit parses a suit letter or glyph.
func ParseSuit(s string) (Suit, error) {
	suit, ok := suitNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return NoSuit, fmt.Errorf("invalid suit %q", s)
	}
	return suit, nil
}

// ParseCard parses a complete card in "As", "10h" or "K♦" notation.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := ParseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := ParseSuit(string(runes[len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return NewCard(rank, suit), nil
}

// MustParseCard is ParseCard for literals known to be valid; it panics otherwise.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a run of two-character cards such as "AsKs" or "Ah 7d 2c".
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d (must be even)", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("card at position %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is ParseCards for test fixtures; it panics on invalid input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// ParsePartialCard is ParseCard that also accepts a lone rank ("A"), a lone
// suit ("s" or "?s") and the empty string, for slots still being picked.
func ParsePartialCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "?" {
		return Card{}, nil
	}
	if c, err := ParseCard(s); err == nil {
		return c, nil
	}
	if r, err := ParseRank(s); err == nil {
		return Card{Rank: r}, nil
	}
	if suit, err := ParseSuit(strings.TrimPrefix(s, "?")); err == nil {
		return Card{Suit: suit}, nil
	}
	return Card{}, fmt.Errorf("invalid card %q", s)
}
