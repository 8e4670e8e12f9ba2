package domain

import "math/rand"

// GameState is the phase of the current board.
type GameState string

const (
	StateNew      GameState = "new"
	StateAuction  GameState = "auction"
	StatePlaying  GameState = "playing"
	StateFinished GameState = "finished"
)

// DealSource supplies the cards for each new board.
type DealSource interface {
	NextDeal() Deal
}

// RandomDeals shuffles a fresh deck for every board.
type RandomDeals struct {
	rng *rand.Rand
}

// NewRandomDeals returns a DealSource backed by rng.
func NewRandomDeals(rng *rand.Rand) *RandomDeals {
	return &RandomDeals{rng: rng}
}

// NextDeal deals a shuffled deck.
func (d *RandomDeals) NextDeal() Deal {
	return NewDeal(d.rng)
}

// Game sequences auction, play and scoring for successive boards at one
// table. It is not safe for concurrent use.
type Game struct {
	state    GameState
	scoring  Scoring
	deals    DealSource
	board    *Board
	queue    []*Board
	auction  *Auction
	play     *TrickPlay
	contract *Contract
	results  []Result
	rubbers  []*Rubber
	revealed [SeatCount]bool
	players  [SeatCount]*Player
	// handIndex remembers where each played card sat in its hand.
	handIndex []int
}

// NewGame creates an empty table. A nil deals source leaves every hand
// unknown, in which case plays are not checked against hands.
func NewGame(scoring Scoring, deals DealSource) *Game {
	return &Game{state: StateNew, scoring: scoring, deals: deals}
}

func (g *Game) State() GameState    { return g.state }
func (g *Game) Scoring() Scoring    { return g.scoring }
func (g *Game) Auction() *Auction   { return g.auction }
func (g *Game) Play() *TrickPlay    { return g.play }
func (g *Game) Contract() *Contract { return g.contract }
func (g *Game) Rubbers() []*Rubber  { return g.rubbers }

// QueueBoards sets boards to be played, in order, before any generated board.
func (g *Game) QueueBoards(boards ...*Board) {
	for _, b := range boards {
		g.queue = append(g.queue, b.Copy())
	}
}

// Board returns a copy of the current board, or nil before the first start.
func (g *Game) Board() *Board {
	if g.board == nil {
		return nil
	}
	return g.board.Copy()
}

// Results returns the results of every finished board.
func (g *Game) Results() []Result {
	out := make([]Result, len(g.results))
	copy(out, g.results)
	return out
}

// LastResult returns the most recent result.
func (g *Game) LastResult() (Result, bool) {
	if len(g.results) == 0 {
		return Result{}, false
	}
	return g.results[len(g.results)-1], true
}

// InProgress reports whether a board is in its auction or play.
func (g *Game) InProgress() bool {
	return g.state == StateAuction || g.state == StatePlaying
}

// Start begins the next board: a queued board if any, else the successor
// of the current board, else board one.
func (g *Game) Start() error {
	if g.InProgress() {
		return gameError("start", ErrGameInProgress)
	}
	var board *Board
	switch {
	case len(g.queue) > 0:
		board, g.queue = g.queue[0], g.queue[1:]
	case g.board != nil:
		board = g.board.Next(g.nextDeal())
	default:
		board = FirstBoard(g.nextDeal())
	}
	g.begin(board)
	return nil
}

// StartWithBoard begins play of the given board.
func (g *Game) StartWithBoard(board *Board) error {
	if g.InProgress() {
		return gameError("start", ErrGameInProgress)
	}
	if board == nil || !board.Dealer.Valid() {
		return gameError("start", ErrUnknownSeat)
	}
	g.begin(board.Copy())
	return nil
}

func (g *Game) begin(board *Board) {
	if g.scoring == ScoringRubber {
		board.Vulnerability = VulnerableNone
		if rubber := g.openRubber(); rubber != nil {
			board.Vulnerability = rubber.Vulnerability()
		}
	}
	g.board = board
	g.auction = NewAuction(board.Dealer)
	g.play = nil
	g.contract = nil
	g.handIndex = nil
	g.revealed = [SeatCount]bool{}
	g.state = StateAuction
}

func (g *Game) nextDeal() Deal {
	if g.deals == nil {
		return Deal{}
	}
	return g.deals.NextDeal()
}

func (g *Game) openRubber() *Rubber {
	if len(g.rubbers) == 0 {
		return nil
	}
	last := g.rubbers[len(g.rubbers)-1]
	if _, won := last.Winner(); won {
		return nil
	}
	return last
}

// Turn returns the seat due to call or play.
func (g *Game) Turn() (Seat, error) {
	var (
		seat Seat
		ok   bool
	)
	switch g.state {
	case StateAuction:
		seat, ok = g.auction.WhoseTurn()
	case StatePlaying:
		seat, ok = g.play.WhoseTurn()
	}
	if !ok {
		return NoSeat, gameError("turn", ErrNoGame)
	}
	return seat, nil
}

// MakeCall makes call for seat in the current auction.
func (g *Game) MakeCall(call Call, seat Seat) error {
	const op = "make call"
	if !seat.Valid() {
		return gameError(op, ErrUnknownSeat)
	}
	if call.Kind < BidCall || call.Kind > RedoubleCall {
		return gameError(op, ErrInvalidCallClass)
	}
	if g.auction == nil {
		return gameError(op, ErrNoGame)
	}
	if g.auction.Complete() || g.state != StateAuction {
		return gameError(op, ErrAuctionComplete)
	}
	if turn, _ := g.auction.WhoseTurn(); turn != seat {
		return gameError(op, ErrOutOfTurn)
	}
	if !g.auction.ValidCallFrom(call, seat) {
		return gameError(op, ErrInvalidCall)
	}
	if err := g.auction.MakeCall(call); err != nil {
		return gameError(op, err)
	}

	switch {
	case g.auction.PassedOut():
		g.state = StateFinished
		g.addResult(nil, 0, nil)
	case g.auction.Complete():
		g.contract = g.auction.Contract()
		g.play = NewTrickPlay(g.contract.Declarer, g.contract.Trumps())
		g.state = StatePlaying
	}
	if !g.InProgress() {
		g.revealAll()
	}
	return nil
}

// PlayCard plays card for seat. When it is dummy's turn the declarer
// plays dummy's card; dummy itself may not play.
func (g *Game) PlayCard(card Card, seat Seat) error {
	const op = "play card"
	if !seat.Valid() {
		return gameError(op, ErrUnknownSeat)
	}
	if g.play == nil {
		return gameError(op, ErrNoGame)
	}
	if g.play.Complete() || g.state != StatePlaying {
		return gameError(op, ErrPlayComplete)
	}

	turn, _ := g.play.WhoseTurn()
	from := seat
	if turn == g.play.Dummy() {
		switch seat {
		case g.play.Declarer():
			from = g.play.Dummy()
		case g.play.Dummy():
			return gameError(op, ErrDummyCannotPlay)
		}
	}
	if turn != from {
		return gameError(op, ErrOutOfTurn)
	}

	hand := g.board.Deal[from]
	if err := g.play.PlayCard(card, seat, hand); err != nil {
		return gameError(op, err)
	}
	index := -1
	if hand != nil {
		for i, c := range hand {
			if c == card {
				index = i
				break
			}
		}
		g.board.Deal[from].Remove(card)
	}
	g.handIndex = append(g.handIndex, index)

	if first, _ := g.play.Trick(0); first.Count() == 1 {
		g.reveal(g.play.Dummy())
	}
	if g.play.Complete() {
		g.state = StateFinished
		declarerTricks, _ := g.play.TrickCount()
		g.addResult(g.contract, declarerTricks, nil)
		g.revealAll()
	}
	return nil
}

// Undo takes back the last call during the auction or the last card
// during play. It returns false when there is nothing to take back.
func (g *Game) Undo() bool {
	switch g.state {
	case StateAuction:
		return g.auction.Undo()
	case StatePlaying:
		card, seat, ok := g.play.UndoLast()
		if !ok {
			return false
		}
		index := g.handIndex[len(g.handIndex)-1]
		g.handIndex = g.handIndex[:len(g.handIndex)-1]
		if hand := g.board.Deal[seat]; hand != nil {
			if index < 0 || index > len(hand) {
				index = len(hand)
			}
			restored := make(Hand, 0, len(hand)+1)
			restored = append(restored, hand[:index]...)
			restored = append(restored, card)
			restored = append(restored, hand[index:]...)
			g.board.Deal[seat] = restored
		}
		return true
	}
	return false
}

// Claim ends play with seat claiming tricks of the tricks still to play.
func (g *Game) Claim(seat Seat, tricks int) error {
	const op = "claim"
	if !g.InProgress() {
		return gameError(op, ErrNoGame)
	}
	if g.state == StateAuction {
		return gameError(op, ErrClaimDuringAuction)
	}
	if !seat.Valid() {
		return gameError(op, ErrUnknownSeat)
	}
	declarerTricks, defenderTricks := g.play.TrickCount()
	if remaining := TricksPerBoard - declarerTricks - defenderTricks; tricks < 0 || tricks > remaining {
		return gameError(op, ErrInvalidClaim)
	}

	g.state = StateFinished
	g.addResult(g.contract, declarerTricks, &Claim{By: seat, Tricks: tricks, DefenderTricks: defenderTricks})
	g.revealAll()
	return nil
}

func (g *Game) addResult(contract *Contract, declarerTricks int, claim *Claim) {
	result := NewResult(g.scoring, g.board, contract, declarerTricks, claim)
	g.results = append(g.results, result)
	if g.scoring != ScoringRubber {
		return
	}
	rubber := g.openRubber()
	if rubber == nil {
		rubber = &Rubber{}
		g.rubbers = append(g.rubbers, rubber)
	}
	rubber.Add(result)
}

func (g *Game) reveal(seat Seat) {
	if g.board != nil && g.board.Deal[seat] != nil {
		g.revealed[seat] = true
	}
}

func (g *Game) revealAll() {
	for _, s := range Seats {
		g.reveal(s)
	}
}

// Revealed reports whether seat's hand is shown to everyone.
func (g *Game) Revealed(seat Seat) bool {
	return seat.Valid() && g.revealed[seat]
}

// Hand returns the cards seat currently holds.
func (g *Game) Hand(seat Seat) (Hand, error) {
	if !seat.Valid() {
		return nil, gameError("hand", ErrUnknownSeat)
	}
	if g.board == nil || g.board.Deal[seat] == nil {
		return nil, gameError("hand", ErrHandUnknown)
	}
	return g.board.Deal[seat].Clone(), nil
}

// AddPlayer seats a player and returns its command handle.
func (g *Game) AddPlayer(seat Seat) (*Player, error) {
	if !seat.Valid() {
		return nil, gameError("add player", ErrUnknownSeat)
	}
	if g.players[seat] != nil {
		return nil, gameError("add player", ErrSeatTaken)
	}
	p := &Player{seat: seat, table: g}
	g.players[seat] = p
	return p, nil
}

// RemovePlayer frees seat.
func (g *Game) RemovePlayer(seat Seat) error {
	if !seat.Valid() {
		return gameError("remove player", ErrUnknownSeat)
	}
	if g.players[seat] == nil {
		return gameError("remove player", ErrSeatVacant)
	}
	g.players[seat] = nil
	return nil
}

// Occupied reports whether a player sits at seat.
func (g *Game) Occupied(seat Seat) bool {
	return seat.Valid() && g.players[seat] != nil
}

// NextGameReady is true when no board is in progress and all seats are filled.
func (g *Game) NextGameReady() bool {
	if g.InProgress() {
		return false
	}
	for _, p := range g.players {
		if p == nil {
			return false
		}
	}
	return true
}

// SubmitCall implements Commands.
func (g *Game) SubmitCall(seat Seat, call Call) error {
	return g.MakeCall(call, seat)
}

// SubmitPlay implements Commands.
func (g *Game) SubmitPlay(seat Seat, card Card) error {
	return g.PlayCard(card, seat)
}

// StartNextGame implements Commands.
func (g *Game) StartNextGame() error {
	if !g.NextGameReady() {
		return gameError("start next game", ErrNotReady)
	}
	return g.Start()
}
