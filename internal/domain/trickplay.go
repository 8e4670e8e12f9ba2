package domain

// TricksPerBoard is the number of tricks in a complete play.
const TricksPerBoard = 13

// TrickPlay sequences the thirteen tricks of a board. Tricks are not stored:
// trick i is rebuilt from each seat's i-th played card and the leader.
type TrickPlay struct {
	trumps   Suit
	declarer Seat
	dummy    Seat
	lho      Seat
	rho      Seat
	played   [SeatCount][]Card
	history  []Card
	winners  []Seat
}

// NewTrickPlay starts play for declarer with the given trump suit
// (NoTrumps for a no-trump contract).
func NewTrickPlay(declarer Seat, trumps Suit) *TrickPlay {
	return &TrickPlay{
		trumps:   trumps,
		declarer: declarer,
		dummy:    declarer.Offset(2),
		lho:      declarer.Offset(1),
		rho:      declarer.Offset(3),
	}
}

// Trumps, Declarer, Dummy, LHO and RHO report the fixed roles of the play.
func (p *TrickPlay) Trumps() Suit   { return p.trumps }
func (p *TrickPlay) Declarer() Seat { return p.declarer }
func (p *TrickPlay) Dummy() Seat    { return p.dummy }
func (p *TrickPlay) LHO() Seat      { return p.lho }
func (p *TrickPlay) RHO() Seat      { return p.rho }

// Played returns a copy of the cards seat has played, in order.
func (p *TrickPlay) Played(seat Seat) []Card {
	if !seat.Valid() {
		return nil
	}
	out := make([]Card, len(p.played[seat]))
	copy(out, p.played[seat])
	return out
}

// History returns a copy of every card played, in order.
func (p *TrickPlay) History() []Card {
	out := make([]Card, len(p.history))
	copy(out, p.history)
	return out
}

// Winners returns the winning seat of each completed trick.
func (p *TrickPlay) Winners() []Seat {
	out := make([]Seat, len(p.winners))
	copy(out, p.winners)
	return out
}

// Complete is true once thirteen tricks have winners.
func (p *TrickPlay) Complete() bool {
	return len(p.winners) == TricksPerBoard
}

// Trick rebuilds trick index (0..12).
func (p *TrickPlay) Trick(index int) (Trick, bool) {
	if index < 0 || index >= TricksPerBoard {
		return Trick{}, false
	}
	t := Trick{Leader: p.lho}
	if index > 0 {
		if index > len(p.winners) {
			return Trick{}, false
		}
		t.Leader = p.winners[index-1]
	}
	for _, s := range Seats {
		if len(p.played[s]) > index {
			c := p.played[s][index]
			t.Cards[s] = &c
		}
	}
	return t, true
}

func (p *TrickPlay) currentIndex() int {
	longest := 0
	for _, cards := range p.played {
		if len(cards) > longest {
			longest = len(cards)
		}
	}
	if longest == 0 {
		return 0
	}
	return longest - 1
}

// CurrentTrick returns the trick in progress, or the last completed one
// when the next has not been led.
func (p *TrickPlay) CurrentTrick() Trick {
	t, _ := p.Trick(p.currentIndex())
	return t
}

// Tricks returns every completed trick.
func (p *TrickPlay) Tricks() []Trick {
	out := make([]Trick, 0, len(p.winners))
	for i := range p.winners {
		t, _ := p.Trick(i)
		out = append(out, t)
	}
	return out
}

// TrickCount returns tricks won by the declaring side and by the defenders.
func (p *TrickPlay) TrickCount() (declarer, defenders int) {
	for _, w := range p.winners {
		if w == p.declarer || w == p.dummy {
			declarer++
		} else {
			defenders++
		}
	}
	return declarer, defenders
}

// WhoseTurn returns the seat to play next, or false once play is complete.
func (p *TrickPlay) WhoseTurn() (Seat, bool) {
	if p.Complete() {
		return NoSeat, false
	}
	idx := p.currentIndex()
	t, _ := p.Trick(idx)
	if t.Done() {
		return p.winners[idx], true
	}
	return t.Leader.Offset(t.Count()), true
}

// WhoPlayed returns the seat that played c, if any.
func (p *TrickPlay) WhoPlayed(c Card) (Seat, bool) {
	for _, s := range Seats {
		for _, played := range p.played[s] {
			if played == c {
				return s, true
			}
		}
	}
	return NoSeat, false
}

// WinningCard returns the winner of a complete trick: the highest trump if
// any was played, else the highest card of the led suit.
func (p *TrickPlay) WinningCard(t Trick) (Card, bool) {
	if !t.Done() {
		return Card{}, false
	}
	lead, _ := t.LeadCard()
	var best *Card
	bestIsTrump := false
	for _, c := range t.Cards {
		isTrump := p.trumps != NoTrumps && c.Suit == p.trumps
		if !isTrump && c.Suit != lead.Suit {
			continue
		}
		if best == nil || (isTrump && !bestIsTrump) || (isTrump == bestIsTrump && c.Rank > best.Rank) {
			best, bestIsTrump = c, isTrump
		}
	}
	if best == nil {
		return Card{}, false
	}
	return *best, true
}

// ValidPlay reports whether seat may play c. A nil hand skips the
// hand membership and follow-suit checks. When it is dummy's turn the
// declarer is the one entitled to submit dummy's card.
func (p *TrickPlay) ValidPlay(c Card, seat Seat, hand Hand) bool {
	turn, ok := p.WhoseTurn()
	if !ok || !c.Valid() {
		return false
	}
	if hand != nil && !hand.Contains(c) {
		return false
	}
	if seat != turn && !(turn == p.dummy && seat == p.declarer) {
		return false
	}
	if _, played := p.WhoPlayed(c); played {
		return false
	}

	t := p.CurrentTrick()
	if n := t.Count(); n == 0 || n == SeatCount {
		return true
	}
	lead, _ := t.LeadCard()
	if c.Suit == lead.Suit || hand == nil {
		return true
	}
	for _, h := range hand {
		if h.Suit != lead.Suit {
			continue
		}
		if _, played := p.WhoPlayed(h); !played {
			return false
		}
	}
	return true
}

// PlayCard plays c for the seat whose turn it is. seat is the acting seat
// (the declarer acts for dummy); hand may be nil when it is not known.
// When the card completes a trick its winner is recorded.
func (p *TrickPlay) PlayCard(c Card, seat Seat, hand Hand) error {
	turn, ok := p.WhoseTurn()
	if !ok {
		return ErrPlayComplete
	}
	if seat == NoSeat {
		seat = turn
	}
	if !p.ValidPlay(c, seat, hand) {
		return ErrInvalidPlay
	}
	p.played[turn] = append(p.played[turn], c)
	p.history = append(p.history, c)

	t := p.CurrentTrick()
	if t.Done() {
		win, _ := p.WinningCard(t)
		winner, _ := p.WhoPlayed(win)
		p.winners = append(p.winners, winner)
	}
	return nil
}

// UndoLast takes back the most recent card and returns it with the seat
// that played it. A trick winner recorded by that card is removed too.
func (p *TrickPlay) UndoLast() (Card, Seat, bool) {
	if len(p.history) == 0 {
		return Card{}, NoSeat, false
	}
	c := p.history[len(p.history)-1]
	seat, ok := p.WhoPlayed(c)
	if !ok {
		return Card{}, NoSeat, false
	}
	index := len(p.played[seat]) - 1
	if len(p.winners) > index {
		p.winners = p.winners[:index]
	}
	p.played[seat] = p.played[seat][:index]
	p.history = p.history[:len(p.history)-1]
	return c, seat, true
}
