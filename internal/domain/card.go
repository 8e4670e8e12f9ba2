package domain

import (
	"encoding/json"
	"math/rand"
	"sort"
	"strings"
)

// Suit is a card suit, ordered clubs < diamonds < hearts < spades.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NoTrumps is the trump suit of a no-trump contract.
const NoTrumps Suit = -1

const suitLetters = "CDHS"

var suitNames = [4]string{"club", "diamond", "heart", "spade"}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= Clubs && s <= Spades
}

// Major reports whether s is hearts or spades.
func (s Suit) Major() bool {
	return s == Hearts || s == Spades
}

func (s Suit) String() string {
	if !s.Valid() {
		return "no_trump"
	}
	return suitNames[s]
}

// Rank is a card rank from Two (0) to Ace (12).
type Rank int

const (
	Two Rank = iota
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

var rankSymbols = [13]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Valid reports whether r is a real rank.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return rankSymbols[r]
}

// Card is a single playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// String renders the card as rank symbol then suit letter ("10H", "AS").
func (c Card) String() string {
	if !c.Suit.Valid() {
		return c.Rank.String() + "?"
	}
	return c.Rank.String() + string(suitLetters[c.Suit])
}

// Valid reports whether c is one of the 52 cards.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Less orders cards by suit, then rank.
func (c Card) Less(other Card) bool {
	if c.Suit != other.Suit {
		return c.Suit < other.Suit
	}
	return c.Rank < other.Rank
}

// Honour returns the high-card points of c (A=4, K=3, Q=2, J=1).
func (c Card) Honour() int {
	if c.Rank < Jack {
		return 0
	}
	return int(c.Rank-Jack) + 1
}

// ParseCard parses tokens like "AS", "10h" or "td".
func ParseCard(token string) (Card, error) {
	text := strings.ToUpper(strings.TrimSpace(token))
	if len(text) < 2 {
		return Card{}, &CardError{Token: token, Reason: "too short"}
	}
	suit := strings.IndexByte(suitLetters, text[len(text)-1])
	if suit < 0 {
		return Card{}, &CardError{Token: token, Reason: "unknown suit"}
	}
	symbol := text[:len(text)-1]
	if symbol == "T" {
		symbol = "10"
	}
	for r, s := range rankSymbols {
		if s == symbol {
			return Card{Rank: Rank(r), Suit: Suit(suit)}, nil
		}
	}
	return Card{}, &CardError{Token: token, Reason: "unknown rank"}
}

// MarshalText encodes the card in its short text form.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, &CardError{Token: c.String(), Reason: "not a card"}
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card token.
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// NewDeck returns the 52 cards sorted by suit then rank.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// Hand is the cards held by one seat.
type Hand []Card

// Len returns the number of cards held.
func (h Hand) Len() int { return len(h) }

// Contains reports whether c is in the hand.
func (h Hand) Contains(c Card) bool {
	for _, card := range h {
		if card == c {
			return true
		}
	}
	return false
}

// HasSuit reports whether the hand holds any card of suit s.
func (h Hand) HasSuit(s Suit) bool {
	for _, card := range h {
		if card.Suit == s {
			return true
		}
	}
	return false
}

// Remove deletes c from the hand and reports whether it was present.
func (h *Hand) Remove(c Card) bool {
	for i, card := range *h {
		if card == c {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}
	return false
}

// Add appends c to the hand.
func (h *Hand) Add(c Card) {
	*h = append(*h, c)
}

// Sort orders the hand by suit, then rank.
func (h Hand) Sort() {
	sort.Slice(h, func(i, j int) bool { return h[i].Less(h[j]) })
}

// Sample returns a random card from a non-empty hand.
func (h Hand) Sample(rng *rand.Rand) (Card, bool) {
	if len(h) == 0 {
		return Card{}, false
	}
	return h[rng.Intn(len(h))], true
}

// Clone returns an independent copy of the hand.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// Points returns the high-card point count of the hand.
func (h Hand) Points() int {
	total := 0
	for _, c := range h {
		total += c.Honour()
	}
	return total
}

// Deal holds the four hands of a board. A nil hand is unknown.
type Deal [SeatCount]Hand

// NewDeal shuffles a deck with rng and deals it round-robin from North.
func NewDeal(rng *rand.Rand) Deal {
	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	var d Deal
	for i, c := range deck {
		seat := Seat(i % SeatCount)
		d[seat] = append(d[seat], c)
	}
	for _, h := range d {
		h.Sort()
	}
	return d
}

// Complete reports whether every hand is known.
func (d Deal) Complete() bool {
	for _, h := range d {
		if h == nil {
			return false
		}
	}
	return true
}

// Clone deep-copies every hand.
func (d Deal) Clone() Deal {
	var out Deal
	for i, h := range d {
		out[i] = h.Clone()
	}
	return out
}

// MarshalJSON encodes the deal as an object keyed by seat name.
func (d Deal) MarshalJSON() ([]byte, error) {
	out := make(map[Seat]Hand, SeatCount)
	for _, s := range Seats {
		out[s] = d[s]
	}
	return json.Marshal(out)
}
