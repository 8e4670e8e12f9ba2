package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Strain is the denomination of a bid.
type Strain int

const (
	StrainClub Strain = iota
	StrainDiamond
	StrainHeart
	StrainSpade
	StrainNoTrump
)

const strainCount = 5

var strainNames = [strainCount]string{"club", "diamond", "heart", "spade", "no trump"}

// Valid reports whether s is one of the five strains.
func (s Strain) Valid() bool {
	return s >= StrainClub && s <= StrainNoTrump
}

// Trumps maps the strain to its trump suit, NoTrumps for no-trump.
func (s Strain) Trumps() Suit {
	if s == StrainNoTrump {
		return NoTrumps
	}
	return Suit(s)
}

// Minor reports whether s is clubs or diamonds.
func (s Strain) Minor() bool {
	return s == StrainClub || s == StrainDiamond
}

func (s Strain) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return strainNames[s]
}

// MarshalText encodes the strain name with underscores ("no_trump").
func (s Strain) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot encode strain %d", int(s))
	}
	return []byte(strings.ReplaceAll(s.String(), " ", "_")), nil
}

// UnmarshalText decodes a strain name or letter.
func (s *Strain) UnmarshalText(text []byte) error {
	word := strings.NewReplacer(" ", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(string(text))))
	strain, ok := parseStrain(word)
	if !ok {
		return fmt.Errorf("unknown strain %q", string(text))
	}
	*s = strain
	return nil
}

// MinLevel and MaxLevel bound the level of a bid.
const (
	MinLevel = 1
	MaxLevel = 7
)

var levelWords = [MaxLevel + 1]string{"", "one", "two", "three", "four", "five", "six", "seven"}

// Bid is a contract offer: level 1..7 in a strain.
type Bid struct {
	Level  int    `json:"level"`
	Strain Strain `json:"strain"`
}

// Valid reports whether the level and strain are in range.
func (b Bid) Valid() bool {
	return b.Level >= MinLevel && b.Level <= MaxLevel && b.Strain.Valid()
}

// Rank orders bids: 1C is 0, 7NT is 34.
func (b Bid) Rank() int {
	return (b.Level-1)*strainCount + int(b.Strain)
}

// Beats reports whether b outranks other.
func (b Bid) Beats(other Bid) bool {
	return b.Rank() > other.Rank()
}

// TricksRequired is the number of tricks declarer must win.
func (b Bid) TricksRequired() int {
	return b.Level + 6
}

func (b Bid) String() string {
	if !b.Valid() {
		return fmt.Sprintf("bid(%d,%d)", b.Level, int(b.Strain))
	}
	return levelWords[b.Level] + " " + b.Strain.String()
}

// CallKind distinguishes the four call classes. The zero value is invalid.
type CallKind int

const (
	BidCall CallKind = iota + 1
	PassCall
	DoubleCall
	RedoubleCall
)

// Call is one action in the auction.
type Call struct {
	Kind CallKind
	Bid  Bid
}

// NewBid builds a bid call.
func NewBid(level int, strain Strain) Call {
	return Call{Kind: BidCall, Bid: Bid{Level: level, Strain: strain}}
}

// Pass, Double and Redouble build the non-bid calls.
func Pass() Call     { return Call{Kind: PassCall} }
func Double() Call   { return Call{Kind: DoubleCall} }
func Redouble() Call { return Call{Kind: RedoubleCall} }

// IsBid reports whether c is a bid.
func (c Call) IsBid() bool { return c.Kind == BidCall }

// Valid reports whether c is a well-formed call of a known class.
func (c Call) Valid() bool {
	switch c.Kind {
	case BidCall:
		return c.Bid.Valid()
	case PassCall, DoubleCall, RedoubleCall:
		return true
	default:
		return false
	}
}

func (c Call) String() string {
	switch c.Kind {
	case BidCall:
		return c.Bid.String()
	case PassCall:
		return "pass"
	case DoubleCall:
		return "double"
	case RedoubleCall:
		return "redouble"
	default:
		return "invalid"
	}
}

// MarshalText encodes the call in the same words ParseCall accepts.
func (c Call) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidCallClass
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes call text.
func (c *Call) UnmarshalText(text []byte) error {
	call, err := ParseCall(string(text))
	if err != nil {
		return err
	}
	*c = call
	return nil
}

// sortKey places bids by rank, then double, redouble and pass.
func (c Call) sortKey() int {
	switch c.Kind {
	case BidCall:
		return c.Bid.Rank()
	case DoubleCall:
		return 35
	case RedoubleCall:
		return 36
	case PassCall:
		return 37
	default:
		return 38
	}
}

// CompareCalls orders calls for display. Any non-bid sorts after every bid.
// It is not a legality test.
func CompareCalls(a, b Call) int {
	return a.sortKey() - b.sortKey()
}

// AllCalls returns the full catalog of 38 calls in display order.
func AllCalls() []Call {
	calls := make([]Call, 0, MaxLevel*strainCount+3)
	for level := MinLevel; level <= MaxLevel; level++ {
		for s := StrainClub; s <= StrainNoTrump; s++ {
			calls = append(calls, NewBid(level, s))
		}
	}
	return append(calls, Double(), Redouble(), Pass())
}

// ParseCall reads call text: "p", "pass", "d", "double", "r", "redouble",
// "[b|bid] <level> <strain>" such as "one heart" or "bid two no_trump",
// and compact forms such as "1h" or "3nt". Case is ignored.
func ParseCall(text string) (Call, error) {
	normalized := strings.NewReplacer("_", " ", "-", " ").Replace(cases.Fold().String(text))
	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return Call{}, &CallError{Text: text, Reason: "empty"}
	}

	if len(fields) == 1 {
		switch fields[0] {
		case "p", "pass":
			return Pass(), nil
		case "d", "x", "double":
			return Double(), nil
		case "r", "xx", "redouble":
			return Redouble(), nil
		}
		if bid, ok := parseCompactBid(fields[0]); ok {
			return Call{Kind: BidCall, Bid: bid}, nil
		}
		return Call{}, &CallError{Text: text, Reason: "unknown call"}
	}

	if fields[0] == "b" || fields[0] == "bid" {
		fields = fields[1:]
	}
	if len(fields) < 2 {
		if len(fields) == 1 {
			if bid, ok := parseCompactBid(fields[0]); ok {
				return Call{Kind: BidCall, Bid: bid}, nil
			}
		}
		return Call{}, &CallError{Text: text, Reason: "bid needs a level and a strain"}
	}

	level := parseLevel(fields[0])
	if level == 0 {
		return Call{}, &CallError{Text: text, Reason: "unknown level"}
	}
	strain, ok := parseStrain(strings.Join(fields[1:], ""))
	if !ok {
		return Call{}, &CallError{Text: text, Reason: "unknown strain"}
	}
	return NewBid(level, strain), nil
}

func parseLevel(word string) int {
	for i := MinLevel; i <= MaxLevel; i++ {
		if word == levelWords[i] || word == fmt.Sprint(i) {
			return i
		}
	}
	return 0
}

func parseStrain(word string) (Strain, bool) {
	if word == "s" {
		return StrainSpade, true
	}
	switch strings.TrimSuffix(word, "s") {
	case "c", "club":
		return StrainClub, true
	case "d", "diamond":
		return StrainDiamond, true
	case "h", "heart":
		return StrainHeart, true
	case "spade":
		return StrainSpade, true
	case "n", "nt", "notrump":
		return StrainNoTrump, true
	}
	return 0, false
}

func parseCompactBid(token string) (Bid, bool) {
	if len(token) < 2 || token[0] < '1' || token[0] > '7' {
		return Bid{}, false
	}
	strain, ok := parseStrain(token[1:])
	if !ok {
		return Bid{}, false
	}
	return Bid{Level: int(token[0] - '0'), Strain: strain}, true
}
