package domain

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

// suitDeal gives north every spade, east every heart, south every
// diamond and west every club.
func suitDeal() Deal {
	var d Deal
	suits := [SeatCount]Suit{Spades, Hearts, Diamonds, Clubs}
	for seat, suit := range suits {
		for r := Two; r <= Ace; r++ {
			d[seat] = append(d[seat], Card{Rank: r, Suit: suit})
		}
	}
	return d
}

func startedGame(t *testing.T, scoring Scoring, board *Board) *Game {
	t.Helper()
	g := NewGame(scoring, nil)
	if err := g.StartWithBoard(board); err != nil {
		t.Fatalf("StartWithBoard() error = %v", err)
	}
	return g
}

func bidAll(t *testing.T, g *Game, texts ...string) {
	t.Helper()
	for _, c := range parseCalls(t, texts...) {
		turn, err := g.Turn()
		if err != nil {
			t.Fatalf("Turn() error = %v", err)
		}
		if err := g.MakeCall(c, turn); err != nil {
			t.Fatalf("MakeCall(%v, %v) error = %v", c, turn, err)
		}
	}
}

// playNext plays the first legal card for whoever is due, acting as
// declarer when dummy is on play.
func playNext(t *testing.T, g *Game) Card {
	t.Helper()
	turn, err := g.Turn()
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	actor := turn
	if turn == g.Play().Dummy() {
		actor = g.Play().Declarer()
	}
	hand, err := g.Hand(turn)
	if err != nil {
		t.Fatalf("Hand(%v) error = %v", turn, err)
	}
	for _, c := range hand {
		if g.Play().ValidPlay(c, actor, hand) {
			if err := g.PlayCard(c, actor); err != nil {
				t.Fatalf("PlayCard(%v, %v) error = %v", c, actor, err)
			}
			return c
		}
	}
	t.Fatalf("no legal card for %v in %v", turn, hand)
	return Card{}
}

var twoHeartsByEast = []string{"p", "p", "1c", "x", "xx", "p", "p", "1nt", "p", "2h", "p", "p", "p"}

func TestGameLifecycle(t *testing.T) {
	g := NewGame(ScoringDuplicate, NewRandomDeals(rand.New(rand.NewSource(3))))
	if g.State() != StateNew || g.InProgress() {
		t.Fatalf("new game state = %v", g.State())
	}
	if _, err := g.Turn(); !errors.Is(err, ErrNoGame) {
		t.Fatalf("Turn() before start error = %v, want ErrNoGame", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := g.Start(); !errors.Is(err, ErrGameInProgress) {
		t.Fatalf("second Start() error = %v, want ErrGameInProgress", err)
	}
	if g.State() != StateAuction {
		t.Fatalf("State() = %v, want auction", g.State())
	}

	bidAll(t, g, "1nt", "p", "p", "p")
	if g.State() != StatePlaying {
		t.Fatalf("State() = %v, want playing", g.State())
	}
	if g.Contract().Declarer != North {
		t.Fatalf("Declarer = %v, want north", g.Contract().Declarer)
	}
	if g.Revealed(South) {
		t.Fatalf("dummy revealed before the opening lead")
	}
	playNext(t, g)
	if !g.Revealed(South) || g.Revealed(West) {
		t.Fatalf("after the lead: dummy revealed = %v, west revealed = %v", g.Revealed(South), g.Revealed(West))
	}
	for g.State() == StatePlaying {
		playNext(t, g)
	}
	if g.State() != StateFinished {
		t.Fatalf("State() = %v, want finished", g.State())
	}
	result, ok := g.LastResult()
	if !ok || len(g.Results()) != 1 {
		t.Fatalf("results = %d, want 1", len(g.Results()))
	}
	decl, _ := g.Play().TrickCount()
	if result.TricksMade != decl {
		t.Fatalf("TricksMade = %d, want %d", result.TricksMade, decl)
	}
	for _, s := range Seats {
		if !g.Revealed(s) {
			t.Fatalf("hand %v hidden after the board", s)
		}
	}

	if err := g.Start(); err != nil {
		t.Fatalf("Start() next board error = %v", err)
	}
	if b := g.Board(); b.Number != 2 || b.Dealer != East || b.Vulnerability != VulnerableNorthSouth {
		t.Fatalf("second board = %+v", b)
	}
	if g.Revealed(South) {
		t.Fatalf("revealed hands not cleared for the new board")
	}
}

func TestGamePassedOut(t *testing.T) {
	g := startedGame(t, ScoringDuplicate, FirstBoard(suitDeal()))
	bidAll(t, g, "p", "p", "p", "p")
	if g.State() != StateFinished || g.Contract() != nil {
		t.Fatalf("State() = %v, Contract() = %v", g.State(), g.Contract())
	}
	r, _ := g.LastResult()
	if !r.PassedOut() || r.Score != 0 {
		t.Fatalf("result = %+v", r)
	}
	if g.Play() != nil {
		t.Fatalf("passed out board entered play")
	}
	for _, s := range Seats {
		if !g.Revealed(s) {
			t.Fatalf("hand %v hidden after pass out", s)
		}
	}
}

func TestGameMakeCallErrors(t *testing.T) {
	g := NewGame(ScoringDuplicate, nil)
	if err := g.MakeCall(Pass(), North); !errors.Is(err, ErrNoGame) {
		t.Fatalf("MakeCall() before start error = %v, want ErrNoGame", err)
	}
	g = startedGame(t, ScoringDuplicate, FirstBoard(suitDeal()))

	tests := []struct {
		name string
		call Call
		seat Seat
		want error
	}{
		{name: "out of turn", call: Pass(), seat: East, want: ErrOutOfTurn},
		{name: "illegal double", call: Double(), seat: North, want: ErrInvalidCall},
		{name: "unknown seat", call: Pass(), seat: NoSeat, want: ErrUnknownSeat},
		{name: "bad class", call: Call{}, seat: North, want: ErrInvalidCallClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.MakeCall(tt.call, tt.seat)
			if !errors.Is(err, tt.want) {
				t.Fatalf("MakeCall() error = %v, want %v", err, tt.want)
			}
			var ge *GameError
			if !errors.As(err, &ge) {
				t.Fatalf("MakeCall() error %T is not a *GameError", err)
			}
			if g.Auction().Len() != 0 {
				t.Fatalf("rejected call changed the auction")
			}
		})
	}

	bidAll(t, g, "1s", "p", "p", "p")
	if err := g.MakeCall(Pass(), North); !errors.Is(err, ErrAuctionComplete) {
		t.Fatalf("MakeCall() after auction error = %v, want ErrAuctionComplete", err)
	}
}

func TestGamePlayCardRules(t *testing.T) {
	g := startedGame(t, ScoringDuplicate, FirstBoard(suitDeal()))
	bidAll(t, g, "p", "1h", "p", "p", "p") // east declares, west is dummy, south leads

	if err := g.PlayCard(card(t, "2D"), West); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("PlayCard() out of turn error = %v, want ErrOutOfTurn", err)
	}
	if err := g.PlayCard(card(t, "2S"), South); !errors.Is(err, ErrInvalidPlay) {
		t.Fatalf("PlayCard() of a card not held error = %v, want ErrInvalidPlay", err)
	}
	if err := g.PlayCard(card(t, "AD"), South); err != nil {
		t.Fatalf("PlayCard() lead error = %v", err)
	}
	if err := g.PlayCard(card(t, "2C"), West); !errors.Is(err, ErrDummyCannotPlay) {
		t.Fatalf("PlayCard() by dummy error = %v, want ErrDummyCannotPlay", err)
	}
	if err := g.PlayCard(card(t, "2C"), East); err != nil {
		t.Fatalf("declarer playing from dummy error = %v", err)
	}
	hand, _ := g.Hand(West)
	if hand.Contains(card(t, "2C")) || hand.Len() != 12 {
		t.Fatalf("dummy hand after play = %v", hand)
	}
	if got := g.Play().Played(West); len(got) != 1 {
		t.Fatalf("Played(west) = %v, want the card from dummy", got)
	}
}

func TestGameClaimFixtures(t *testing.T) {
	tests := []struct {
		name      string
		by        Seat
		tricks    int
		wantMade  int
		wantScore int
	}{
		{name: "declarer claims nine", by: East, tricks: 9, wantMade: 9, wantScore: 140},
		{name: "defender claims nine", by: South, tricks: 9, wantMade: 4, wantScore: -400},
		{name: "defender claims none", by: North, tricks: 0, wantMade: 13, wantScore: 260},
		{name: "declarer claims none", by: East, tricks: 0, wantMade: 0, wantScore: -800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := &Board{Number: 1, Dealer: North, Vulnerability: VulnerableAll, Deal: suitDeal()}
			g := startedGame(t, ScoringDuplicate, board)
			if err := g.Claim(East, 9); !errors.Is(err, ErrClaimDuringAuction) {
				t.Fatalf("Claim() during auction error = %v, want ErrClaimDuringAuction", err)
			}
			bidAll(t, g, twoHeartsByEast...)
			if turn, _ := g.Turn(); turn != South {
				t.Fatalf("Turn() = %v, want south", turn)
			}
			if err := g.Claim(tt.by, tt.tricks); err != nil {
				t.Fatalf("Claim() error = %v", err)
			}
			r, _ := g.LastResult()
			if r.TricksMade != tt.wantMade || r.Score != tt.wantScore {
				t.Fatalf("result tricks %d score %d, want %d and %d", r.TricksMade, r.Score, tt.wantMade, tt.wantScore)
			}
			if g.State() != StateFinished || g.InProgress() {
				t.Fatalf("State() = %v after claim", g.State())
			}
			if r.Claim == nil || r.Claim.By != tt.by {
				t.Fatalf("Claim = %+v", r.Claim)
			}
			if err := g.Claim(tt.by, 0); !errors.Is(err, ErrNoGame) {
				t.Fatalf("second Claim() error = %v, want ErrNoGame", err)
			}
		})
	}
}

func TestGameClaimRejectsTooManyTricks(t *testing.T) {
	g := startedGame(t, ScoringDuplicate, FirstBoard(suitDeal()))
	bidAll(t, g, "1c", "p", "p", "p")
	for i := 0; i < 4; i++ {
		playNext(t, g)
	}
	for _, tricks := range []int{-1, 13} {
		if err := g.Claim(North, tricks); !errors.Is(err, ErrInvalidClaim) {
			t.Fatalf("Claim(%d) error = %v, want ErrInvalidClaim", tricks, err)
		}
	}
	if err := g.Claim(North, 12); err != nil {
		t.Fatalf("Claim(12) error = %v", err)
	}
}

func TestGameUndoRoundTrip(t *testing.T) {
	g := startedGame(t, ScoringDuplicate, FirstBoard(NewDeal(rand.New(rand.NewSource(11)))))
	if g.Undo() {
		t.Fatalf("Undo() on empty auction = true")
	}
	bidAll(t, g, "1c", "1d")
	if !g.Undo() || g.Auction().Len() != 1 {
		t.Fatalf("Undo() in auction did not remove the call")
	}
	bidAll(t, g, "1s", "p", "p", "p")

	type state struct {
		played  [SeatCount][]Card
		history []Card
		winners []Seat
		deal    Deal
	}
	capture := func() state {
		var s state
		for _, seat := range Seats {
			s.played[seat] = g.Play().Played(seat)
		}
		s.history = g.Play().History()
		s.winners = g.Play().Winners()
		s.deal = g.Board().Deal
		return s
	}

	var snapshots []state
	for i := 0; i < 6; i++ {
		snapshots = append(snapshots, capture())
		playNext(t, g)
	}
	for i := len(snapshots) - 1; i >= 0; i-- {
		if !g.Undo() {
			t.Fatalf("Undo() #%d = false", i)
		}
		if got := capture(); !reflect.DeepEqual(got, snapshots[i]) {
			t.Fatalf("state after undo #%d = %+v, want %+v", i, got, snapshots[i])
		}
	}
	before := capture()
	if g.Undo() {
		t.Fatalf("Undo() with no cards played = true")
	}
	if !reflect.DeepEqual(capture(), before) {
		t.Fatalf("failed Undo() changed state")
	}
}

func TestGameUndoAfterFinishIsNoop(t *testing.T) {
	g := startedGame(t, ScoringDuplicate, FirstBoard(suitDeal()))
	bidAll(t, g, "p", "p", "p", "p")
	if g.Undo() {
		t.Fatalf("Undo() after the board = true")
	}
}

func TestGameSnapshot(t *testing.T) {
	g := startedGame(t, ScoringDuplicate, &Board{Number: 1, Dealer: North, Vulnerability: VulnerableAll, Deal: suitDeal()})

	s := g.Snapshot()
	if len(s.Calls) != 38 {
		t.Fatalf("len(Calls) = %d, want 38", len(s.Calls))
	}
	if len(s.AvailableCalls) != 36 {
		t.Fatalf("len(AvailableCalls) = %d, want 36", len(s.AvailableCalls))
	}
	if s.Board == nil || len(s.Board.Hands) != 0 {
		t.Fatalf("Board = %+v, want no hands shown", s.Board)
	}
	if s.Turn != North {
		t.Fatalf("Turn = %v, want north", s.Turn)
	}

	bidAll(t, g, "two heart")
	if s = g.Snapshot(); len(s.AvailableCalls) != 29 {
		t.Fatalf("len(AvailableCalls) after two heart = %d, want 29", len(s.AvailableCalls))
	}

	bidAll(t, g, "p", "p", "p")
	playNext(t, g)
	s = g.Snapshot()
	if len(s.AvailableCalls) != 0 {
		t.Fatalf("AvailableCalls during play = %v", s.AvailableCalls)
	}
	if _, ok := s.Board.Hands[South]; !ok || len(s.Board.Hands) != 1 {
		t.Fatalf("Hands = %v, want only dummy", s.Board.Hands)
	}
	if s.Play == nil || s.Play.Declarer != North || s.Play.Trumps != "heart" {
		t.Fatalf("Play = %+v", s.Play)
	}
	if len(s.Auction) != 4 {
		t.Fatalf("Auction = %v", s.Auction)
	}
	own := s.WithHand(East, Hand{card(t, "AH")})
	if len(own.Board.Hands) != 2 || len(s.Board.Hands) != 1 {
		t.Fatalf("WithHand() shared the hands map")
	}
}

func TestGameRubberScoring(t *testing.T) {
	g := NewGame(ScoringRubber, nil)
	g.QueueBoards(
		&Board{Number: 1, Dealer: North, Vulnerability: VulnerableAll, Deal: suitDeal()},
		&Board{Number: 2, Dealer: East, Vulnerability: VulnerableNone, Deal: suitDeal()},
	)
	if err := g.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if v := g.Board().Vulnerability; v != VulnerableNone {
		t.Fatalf("first rubber board Vulnerability = %v, want none", v)
	}
	bidAll(t, g, "4s", "p", "p", "p")
	if err := g.Claim(North, 13); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if len(g.Rubbers()) != 1 || len(g.Rubbers()[0].Results) != 1 {
		t.Fatalf("rubbers = %+v", g.Rubbers())
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if v := g.Board().Vulnerability; v != VulnerableNorthSouth {
		t.Fatalf("Vulnerability after a north-south game = %v", v)
	}
	bidAll(t, g, "p", "p", "p", "p")
	if len(g.Rubbers()) != 1 || len(g.Rubbers()[0].Results) != 2 {
		t.Fatalf("second result not added to the open rubber")
	}
}

type recordingTable struct {
	calls []Call
	seats []Seat
	err   error
}

func (r *recordingTable) SubmitCall(seat Seat, call Call) error {
	r.seats = append(r.seats, seat)
	r.calls = append(r.calls, call)
	return r.err
}
func (r *recordingTable) SubmitPlay(seat Seat, _ Card) error {
	r.seats = append(r.seats, seat)
	return r.err
}
func (r *recordingTable) StartNextGame() error         { return r.err }
func (r *recordingTable) Hand(seat Seat) (Hand, error) { return nil, r.err }

func TestPlayerActsForItsSeat(t *testing.T) {
	table := &recordingTable{}
	p := NewPlayer(West, table)
	if err := p.MakeCall(Pass()); err != nil {
		t.Fatalf("MakeCall() error = %v", err)
	}
	if err := p.PlayCard(card(t, "AS")); err != nil {
		t.Fatalf("PlayCard() error = %v", err)
	}
	if !reflect.DeepEqual(table.seats, []Seat{West, West}) {
		t.Fatalf("seats = %v", table.seats)
	}

	table.err = errors.New("boom")
	err := p.MakeCall(Pass())
	var ge *GameError
	if !errors.As(err, &ge) || ge.Err != table.err {
		t.Fatalf("MakeCall() error = %v, want *GameError wrapping boom", err)
	}
}

func TestGameSeating(t *testing.T) {
	g := NewGame(ScoringDuplicate, NewRandomDeals(rand.New(rand.NewSource(5))))
	players := make([]*Player, 0, SeatCount)
	for _, s := range Seats {
		p, err := g.AddPlayer(s)
		if err != nil {
			t.Fatalf("AddPlayer(%v) error = %v", s, err)
		}
		players = append(players, p)
	}
	if _, err := g.AddPlayer(North); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("AddPlayer(north) again error = %v, want ErrSeatTaken", err)
	}
	if err := g.RemovePlayer(East); err != nil {
		t.Fatalf("RemovePlayer() error = %v", err)
	}
	if err := g.RemovePlayer(East); !errors.Is(err, ErrSeatVacant) {
		t.Fatalf("RemovePlayer() again error = %v, want ErrSeatVacant", err)
	}
	if err := players[0].StartNextGame(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("StartNextGame() with a vacant seat error = %v, want ErrNotReady", err)
	}
	if _, err := players[0].Hand(); !errors.Is(err, ErrHandUnknown) {
		t.Fatalf("Hand() before a deal error = %v, want ErrHandUnknown", err)
	}

	east, err := g.AddPlayer(East)
	if err != nil {
		t.Fatalf("AddPlayer(east) error = %v", err)
	}
	if !g.NextGameReady() {
		t.Fatalf("NextGameReady() = false with four players")
	}
	if err := east.StartNextGame(); err != nil {
		t.Fatalf("StartNextGame() error = %v", err)
	}
	if g.NextGameReady() {
		t.Fatalf("NextGameReady() = true during a board")
	}
	if hand, err := east.Hand(); err != nil || hand.Len() != 13 {
		t.Fatalf("Hand() = %v, %v", hand, err)
	}
	if err := players[0].MakeCall(NewBid(1, StrainClub)); err != nil {
		t.Fatalf("north MakeCall() error = %v", err)
	}
	if err := players[0].MakeCall(Pass()); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("north calling twice error = %v, want ErrOutOfTurn", err)
	}
}
