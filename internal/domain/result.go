package domain

import "fmt"

// Scoring selects how a board result is scored.
type Scoring int

const (
	ScoringDuplicate Scoring = iota
	ScoringRubber
	ScoringLeonardo
)

var scoringNames = [...]string{"duplicate", "rubber", "leonardo"}

func (s Scoring) String() string {
	if s < ScoringDuplicate || s > ScoringLeonardo {
		return "unknown"
	}
	return scoringNames[s]
}

// ParseScoring resolves a scoring name.
func ParseScoring(name string) (Scoring, error) {
	for i, n := range scoringNames {
		if n == name {
			return Scoring(i), nil
		}
	}
	return ScoringDuplicate, fmt.Errorf("unknown scoring %q", name)
}

// MarshalText encodes the scoring name.
func (s Scoring) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a scoring name.
func (s *Scoring) UnmarshalText(text []byte) error {
	v, err := ParseScoring(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Components is the breakdown of a score, positive for the declaring side.
type Components struct {
	Odd         int `json:"odd,omitempty"`
	Over        int `json:"over,omitempty"`
	Under       int `json:"under,omitempty"`
	SlamBonus   int `json:"slam_bonus,omitempty"`
	GameBonus   int `json:"game_bonus,omitempty"`
	PartScore   int `json:"part_score,omitempty"`
	InsultBonus int `json:"insult_bonus,omitempty"`
}

// Total sums every component.
func (c Components) Total() int {
	return c.Odd + c.Over + c.Under + c.SlamBonus + c.GameBonus + c.PartScore + c.InsultBonus
}

// Claim records a claim that ended play early.
type Claim struct {
	By             Seat `json:"by"`
	Tricks         int  `json:"tricks"`
	DefenderTricks int  `json:"defender_tricks"`
}

// Result is the scored outcome of one board.
type Result struct {
	BoardNumber   int           `json:"board_number"`
	Vulnerability Vulnerability `json:"vulnerability"`
	Contract      *Contract     `json:"contract"`
	TricksMade    int           `json:"tricks_made"`
	Vulnerable    bool          `json:"vulnerable"`
	Claim         *Claim        `json:"claim,omitempty"`
	Scoring       Scoring       `json:"scoring"`
	Components    Components    `json:"components"`
	// Score is declarer-relative for duplicate and rubber scoring and
	// north-south relative for leonardo scoring.
	Score int `json:"score"`
	// Above and Below split the score for rubber scoring.
	Above int `json:"above,omitempty"`
	Below int `json:"below,omitempty"`
}

// NewResult scores a board. A nil contract is a passed-out board scoring zero.
// declarerTricks is the number of tricks the declaring side won in play;
// a claim corrects it before scoring.
func NewResult(scoring Scoring, board *Board, contract *Contract, declarerTricks int, claim *Claim) Result {
	r := Result{
		Scoring:    scoring,
		Contract:   contract,
		TricksMade: declarerTricks,
		Claim:      claim,
	}
	if board != nil {
		r.BoardNumber = board.Number
		r.Vulnerability = board.Vulnerability
	}
	if contract == nil {
		r.TricksMade = 0
		return r
	}

	if claim != nil {
		if claim.By.SameSide(contract.Declarer) {
			r.TricksMade = declarerTricks + claim.Tricks
		} else {
			r.TricksMade = TricksPerBoard - (claim.DefenderTricks + claim.Tricks)
		}
	}
	r.Vulnerable = r.Vulnerability.Includes(contract.Declarer)
	r.Components = ScoreComponents(contract, r.TricksMade, r.Vulnerable)

	switch scoring {
	case ScoringRubber:
		r.Above = r.Components.Over + r.Components.Under + r.Components.SlamBonus + r.Components.InsultBonus
		r.Below = r.Components.Odd
		r.Score = r.Above + r.Below
	case ScoringLeonardo:
		r.Score = r.Components.Total()
		if contract.Partnership() == EastWest {
			r.Score = -r.Score
		}
	default:
		r.Score = r.Components.Total()
	}
	return r
}

// PassedOut reports whether the board was passed out.
func (r Result) PassedOut() bool {
	return r.Contract == nil
}

// Points returns the points won by partnership p on this board.
func (r Result) Points(p Partnership) int {
	if r.Contract == nil {
		return 0
	}
	declarerSide := r.Contract.Partnership()
	score := r.Score
	if r.Scoring == ScoringLeonardo && declarerSide == EastWest {
		score = -score
	}
	switch {
	case score > 0 && p == declarerSide:
		return score
	case score < 0 && p != declarerSide:
		return -score
	}
	return 0
}

// ScoreComponents computes the scoring breakdown of a contract given the
// tricks the declaring side made.
func ScoreComponents(c *Contract, tricksMade int, vulnerable bool) Components {
	var out Components
	level := c.Bid.Level
	required := c.Bid.TricksRequired()
	doubled, redoubled := c.Doubled(), c.Redoubled()

	if tricksMade < required {
		out.Under = undertrickPenalty(required-tricksMade, doubled, redoubled, vulnerable)
		return out
	}

	perTrick := 30
	if c.Bid.Strain.Minor() {
		perTrick = 20
	}
	out.Odd = level * perTrick
	if c.Bid.Strain == StrainNoTrump {
		out.Odd += 10
	}
	switch {
	case redoubled:
		out.Odd *= 4
	case doubled:
		out.Odd *= 2
	}

	over := tricksMade - required
	switch {
	case redoubled:
		out.Over = over * pick(vulnerable, 400, 200)
	case doubled:
		out.Over = over * pick(vulnerable, 200, 100)
	default:
		out.Over = over * perTrick
	}

	switch required {
	case 13:
		out.SlamBonus = pick(vulnerable, 1500, 1000)
	case 12:
		out.SlamBonus = pick(vulnerable, 750, 500)
	}

	if out.Odd >= 100 {
		out.GameBonus = pick(vulnerable, 500, 300)
	} else {
		out.PartScore = 50
	}

	switch {
	case redoubled:
		out.InsultBonus = 100
	case doubled:
		out.InsultBonus = 50
	}
	return out
}

func undertrickPenalty(under int, doubled, redoubled, vulnerable bool) int {
	switch {
	case redoubled && vulnerable:
		return -400 - (under-1)*600
	case redoubled:
		p := -200 - (under-1)*400
		if under > 3 {
			p -= (under - 3) * 200
		}
		return p
	case doubled && vulnerable:
		return -200 - (under-1)*300
	case doubled:
		p := -100 - (under-1)*200
		if under > 3 {
			p -= (under - 3) * 100
		}
		return p
	default:
		return -under * pick(vulnerable, 100, 50)
	}
}

func pick(vulnerable bool, yes, no int) int {
	if vulnerable {
		return yes
	}
	return no
}
