package domain

// Snapshot is the observer view of a table.
type Snapshot struct {
	State          GameState  `json:"state"`
	Results        []Result   `json:"results"`
	Contract       *Contract  `json:"contract"`
	Calls          []Call     `json:"calls"`
	AvailableCalls []Call     `json:"available_calls"`
	Turn           Seat       `json:"turn"`
	Board          *BoardView `json:"board,omitempty"`
	Auction        []Call     `json:"auction,omitempty"`
	Play           *PlayView  `json:"play,omitempty"`
}

// BoardView is a board with only the revealed hands present.
type BoardView struct {
	Number        int           `json:"number"`
	Dealer        Seat          `json:"dealer"`
	Vulnerability Vulnerability `json:"vulnerability"`
	Hands         map[Seat]Hand `json:"hands"`
}

// PlayView is the derived state of trick play.
type PlayView struct {
	Trumps             string          `json:"trumps"`
	Declarer           Seat            `json:"declarer"`
	Dummy              Seat            `json:"dummy"`
	LHO                Seat            `json:"lho"`
	RHO                Seat            `json:"rho"`
	Played             map[Seat][]Card `json:"played"`
	Winners            []Seat          `json:"winners"`
	DeclarerTrickCount int             `json:"declarer_trick_count"`
	DefenderTrickCount int             `json:"defender_trick_count"`
	Tricks             []Trick         `json:"tricks"`
}

// Snapshot captures the table as every observer sees it.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		State:          g.state,
		Results:        g.Results(),
		Contract:       g.contract,
		Calls:          AllCalls(),
		AvailableCalls: []Call{},
		Turn:           NoSeat,
	}
	if turn, err := g.Turn(); err == nil {
		s.Turn = turn
	}

	if g.InProgress() {
		if g.state == StateAuction {
			for _, c := range s.Calls {
				if g.auction.ValidCall(c) {
					s.AvailableCalls = append(s.AvailableCalls, c)
				}
			}
		}
		s.Board = &BoardView{
			Number:        g.board.Number,
			Dealer:        g.board.Dealer,
			Vulnerability: g.board.Vulnerability,
			Hands:         make(map[Seat]Hand, SeatCount),
		}
		for _, seat := range Seats {
			if g.revealed[seat] {
				s.Board.Hands[seat] = g.board.Deal[seat].Clone()
			}
		}
	}
	if g.auction != nil {
		s.Auction = g.auction.Calls()
	}
	if g.play != nil {
		s.Play = g.playView()
	}
	return s
}

func (g *Game) playView() *PlayView {
	p := g.play
	declarerTricks, defenderTricks := p.TrickCount()
	v := &PlayView{
		Trumps:             p.Trumps().String(),
		Declarer:           p.Declarer(),
		Dummy:              p.Dummy(),
		LHO:                p.LHO(),
		RHO:                p.RHO(),
		Played:             make(map[Seat][]Card, SeatCount),
		Winners:            p.Winners(),
		DeclarerTrickCount: declarerTricks,
		DefenderTrickCount: defenderTricks,
		Tricks:             p.Tricks(),
	}
	for _, seat := range Seats {
		v.Played[seat] = p.Played(seat)
	}
	return v
}

// WithHand returns a copy of s that also shows seat's own hand, for
// sending to the player sitting there.
func (s Snapshot) WithHand(seat Seat, hand Hand) Snapshot {
	if s.Board == nil || !seat.Valid() || hand == nil {
		return s
	}
	board := *s.Board
	board.Hands = make(map[Seat]Hand, SeatCount)
	for k, v := range s.Board.Hands {
		board.Hands[k] = v
	}
	board.Hands[seat] = hand
	s.Board = &board
	return s
}
