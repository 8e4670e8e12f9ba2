package domain

import "encoding/json"

// Trick is one round of up to four cards, indexed by the seat that played each.
type Trick struct {
	Leader Seat
	Cards  [SeatCount]*Card
}

// Count returns how many cards have been played to the trick.
func (t Trick) Count() int {
	n := 0
	for _, c := range t.Cards {
		if c != nil {
			n++
		}
	}
	return n
}

// Done reports whether every seat has played.
func (t Trick) Done() bool {
	return t.Count() == SeatCount
}

// LeadCard returns the card played by the leader.
func (t Trick) LeadCard() (Card, bool) {
	return t.Card(t.Leader)
}

// Card returns the card seat played to the trick.
func (t Trick) Card(seat Seat) (Card, bool) {
	if !seat.Valid() || t.Cards[seat] == nil {
		return Card{}, false
	}
	return *t.Cards[seat], true
}

type trickJSON struct {
	Leader Seat          `json:"leader"`
	Cards  map[Seat]Card `json:"cards"`
}

// MarshalJSON encodes the cards as an object keyed by seat name.
func (t Trick) MarshalJSON() ([]byte, error) {
	out := trickJSON{Leader: t.Leader, Cards: make(map[Seat]Card, SeatCount)}
	for _, s := range Seats {
		if c, ok := t.Card(s); ok {
			out.Cards[s] = c
		}
	}
	return json.Marshal(out)
}
