package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Seat is one of the four table positions, ordered clockwise from North.
type Seat int

const (
	North Seat = iota
	East
	South
	West
)

// NoSeat marks the absence of a seat (no turn, not doubled, no claim).
const NoSeat Seat = -1

// SeatCount is the number of seats at a bridge table.
const SeatCount = 4

// Seats lists every seat in clockwise order starting at North.
var Seats = [SeatCount]Seat{North, East, South, West}

var seatNames = [SeatCount]string{"north", "east", "south", "west"}

// Valid reports whether s is one of the four table seats.
func (s Seat) Valid() bool {
	return s >= North && s <= West
}

// Offset returns the seat n places clockwise from s.
func (s Seat) Offset(n int) Seat {
	return Seat(((int(s)+n)%SeatCount + SeatCount) % SeatCount)
}

// Next returns the seat to the left of s (clockwise neighbour).
func (s Seat) Next() Seat { return s.Offset(1) }

// Prev returns the seat to the right of s.
func (s Seat) Prev() Seat { return s.Offset(-1) }

// Partner returns the seat opposite s.
func (s Seat) Partner() Seat { return s.Offset(2) }

// SameSide reports whether s and other belong to the same partnership.
func (s Seat) SameSide(other Seat) bool {
	return s.Valid() && other.Valid() && (s == other || s.Partner() == other)
}

// Partnership returns the side s plays for.
func (s Seat) Partnership() Partnership {
	if s == North || s == South {
		return NorthSouth
	}
	return EastWest
}

func (s Seat) String() string {
	if !s.Valid() {
		return "none"
	}
	return seatNames[s]
}

// ParseSeat resolves a seat from its name or initial ("north", "N").
func ParseSeat(text string) (Seat, error) {
	token := strings.ToLower(strings.TrimSpace(text))
	for i, name := range seatNames {
		if token == name || token == name[:1] {
			return Seat(i), nil
		}
	}
	return NoSeat, fmt.Errorf("unknown seat %q", text)
}

// MarshalText encodes the seat name; it is used for JSON map keys.
func (s Seat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot encode seat %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a seat name.
func (s *Seat) UnmarshalText(text []byte) error {
	seat, err := ParseSeat(string(text))
	if err != nil {
		return err
	}
	*s = seat
	return nil
}

// MarshalJSON encodes NoSeat as null and any other seat as its name.
func (s Seat) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts null, a seat name, or a seat ordinal.
func (s *Seat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSeat
		return nil
	}
	var ordinal int
	if err := json.Unmarshal(data, &ordinal); err == nil {
		if !Seat(ordinal).Valid() {
			return fmt.Errorf("seat ordinal %d out of range", ordinal)
		}
		*s = Seat(ordinal)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(name))
}

// Partnership is one of the two sides at the table.
type Partnership int

const (
	NorthSouth Partnership = iota
	EastWest
)

// Seats returns both members of the partnership.
func (p Partnership) Seats() [2]Seat {
	if p == NorthSouth {
		return [2]Seat{North, South}
	}
	return [2]Seat{East, West}
}

// Opponents returns the other partnership.
func (p Partnership) Opponents() Partnership {
	return 1 - p
}

func (p Partnership) String() string {
	if p == NorthSouth {
		return "north_south"
	}
	return "east_west"
}

// MarshalText encodes the partnership name.
func (p Partnership) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Vulnerability is the board vulnerability status.
type Vulnerability int

const (
	VulnerableNone Vulnerability = iota
	VulnerableNorthSouth
	VulnerableEastWest
	VulnerableAll
)

var vulnerabilityNames = [...]string{"none", "north_south", "east_west", "all"}

// Includes reports whether seat is vulnerable under v.
func (v Vulnerability) Includes(seat Seat) bool {
	switch v {
	case VulnerableAll:
		return seat.Valid()
	case VulnerableNorthSouth:
		return seat.Valid() && seat.Partnership() == NorthSouth
	case VulnerableEastWest:
		return seat.Valid() && seat.Partnership() == EastWest
	default:
		return false
	}
}

func (v Vulnerability) String() string {
	if v < VulnerableNone || v > VulnerableAll {
		return "unknown"
	}
	return vulnerabilityNames[v]
}

// MarshalText encodes the vulnerability name.
func (v Vulnerability) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a vulnerability name.
func (v *Vulnerability) UnmarshalText(text []byte) error {
	for i, name := range vulnerabilityNames {
		if string(text) == name {
			*v = Vulnerability(i)
			return nil
		}
	}
	return fmt.Errorf("unknown vulnerability %q", string(text))
}
