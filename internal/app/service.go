package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"bridge/internal/config"
	"bridge/internal/domain"
	"bridge/internal/ports"
)

// Service contains bridge table use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotOwner      = errors.New("actor is not table owner")
	ErrUnknownPlayer = errors.New("player not seated")
	ErrAlreadySeated = errors.New("player already seated")
	ErrTableFull     = errors.New("no free seat")
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrUndoDisabled  = errors.New("undo is disabled at this table")
	ErrClaimDisabled = errors.New("claims are disabled at this table")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrLeaveMidBoard = errors.New("cannot leave while a board is in progress")
)

// NewTable creates an empty table dealing from the service rng.
func (s *Service) NewTable(rules config.TableRules) *Table {
	return &Table{
		game:  domain.NewGame(rules.Scoring, domain.NewRandomDeals(s.rng)),
		rules: rules,
	}
}

// Join seats userID at seat, or at the first free seat when seat is NoSeat.
func (s *Service) Join(t *Table, userID, username string, seat domain.Seat) ([]Event, error) {
	if _, ok := t.SeatOf(userID); ok {
		return nil, ErrAlreadySeated
	}
	if seat == domain.NoSeat {
		free, ok := t.FreeSeat()
		if !ok {
			return nil, ErrTableFull
		}
		seat = free
	}
	p, err := t.game.AddPlayer(seat)
	if err != nil {
		return nil, err
	}
	t.seats[seat] = &seatedUser{userID: userID, username: username, player: p}

	events := []Event{{
		Kind:    EventPlayerJoined,
		Payload: PlayerJoinedPayload{UserID: userID, Seat: seat, Owner: t.Owner() == userID},
	}}
	// A player rejoining mid-board gets their cards back.
	if t.game.InProgress() {
		if hand, err := t.game.Hand(seat); err == nil {
			events = append(events, Event{
				Kind:       EventHandDealt,
				Payload:    HandDealtPayload{Seat: seat, Hand: hand},
				Recipients: []string{userID},
			})
		}
	}
	return events, nil
}

// Leave frees the seat held by userID. Mid-board departures are refused
// unless force is set, as when the presence has disconnected.
func (s *Service) Leave(t *Table, userID string, force bool) ([]Event, error) {
	seat, ok := t.SeatOf(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if t.game.InProgress() && !force {
		return nil, ErrLeaveMidBoard
	}
	if err := t.game.RemovePlayer(seat); err != nil {
		return nil, err
	}
	t.seats[seat] = nil
	return []Event{{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{UserID: userID, Seat: seat},
	}}, nil
}

// StartGame deals the next board. Only the owner may start it.
func (s *Service) StartGame(t *Table, userID string) ([]Event, error) {
	p, err := t.player(userID)
	if err != nil {
		return nil, err
	}
	if t.Owner() != userID {
		return nil, ErrNotOwner
	}
	if t.Occupied() < MinPlayersToStartGame {
		return nil, ErrTooFewPlayers
	}
	if err := p.StartNextGame(); err != nil {
		return nil, err
	}

	board := t.game.Board()
	turn, _ := t.game.Turn()
	events := make([]Event, 0, domain.SeatCount+1)
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			BoardNumber:   board.Number,
			Dealer:        board.Dealer,
			Vulnerability: board.Vulnerability,
			Turn:          turn,
		},
	})
	for _, seat := range domain.Seats {
		userID := t.UserAt(seat)
		if userID == "" {
			continue
		}
		hand, err := t.game.Hand(seat)
		if err != nil {
			return nil, err
		}
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Hand: hand},
			Recipients: []string{userID},
		})
	}
	return events, nil
}

// MakeCall makes call in the auction on behalf of userID.
func (s *Service) MakeCall(t *Table, userID string, call domain.Call) ([]Event, error) {
	p, err := t.player(userID)
	if err != nil {
		return nil, err
	}
	if err := p.MakeCall(call); err != nil {
		return nil, err
	}

	payload := CallMadePayload{Seat: p.Seat(), Call: call, NextTurn: domain.NoSeat}
	if turn, err := t.game.Turn(); err == nil {
		payload.NextTurn = turn
	}
	if c := t.game.Contract(); c != nil && t.game.State() == domain.StatePlaying {
		payload.Contract = c
	}
	events := []Event{{Kind: EventCallMade, Payload: payload}}
	if t.game.State() == domain.StateFinished {
		events = append(events, s.gameEnded(t))
	}
	return events, nil
}

// PlayCard plays card on behalf of userID. Declarer plays dummy's cards.
func (s *Service) PlayCard(t *Table, userID string, card domain.Card) ([]Event, error) {
	p, err := t.player(userID)
	if err != nil {
		return nil, err
	}
	from, err := t.game.Turn()
	if err != nil {
		return nil, err
	}
	play := t.game.Play()
	dummy := domain.NoSeat
	if play != nil {
		dummy = play.Dummy()
	}
	dummyShown := t.game.Revealed(dummy)
	tricksBefore := 0
	if play != nil {
		tricksBefore = len(play.Winners())
	}

	if err := p.PlayCard(card); err != nil {
		return nil, err
	}

	payload := CardPlayedPayload{
		Seat:        from,
		PlayedBy:    p.Seat(),
		Card:        card,
		TrickWinner: domain.NoSeat,
		NextTurn:    domain.NoSeat,
	}
	if winners := play.Winners(); len(winners) > tricksBefore {
		payload.TrickWinner = winners[len(winners)-1]
	}
	if turn, err := t.game.Turn(); err == nil {
		payload.NextTurn = turn
	}
	events := []Event{{Kind: EventCardPlayed, Payload: payload}}

	if !dummyShown && t.game.Revealed(dummy) && t.game.InProgress() {
		hand, err := t.game.Hand(dummy)
		if err == nil {
			events = append(events, Event{
				Kind:    EventHandRevealed,
				Payload: HandRevealedPayload{Seat: dummy, Hand: hand},
			})
		}
	}
	if t.game.State() == domain.StateFinished {
		events = append(events, s.gameEnded(t))
	}
	return events, nil
}

// Undo takes back the last call or card.
func (s *Service) Undo(t *Table, userID string) ([]Event, error) {
	if !t.rules.AllowUndo {
		return nil, ErrUndoDisabled
	}
	seat, ok := t.SeatOf(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if !t.game.Undo() {
		return nil, ErrNothingToUndo
	}

	turn, err := t.game.Turn()
	if err != nil {
		turn = domain.NoSeat
	}
	events := []Event{{
		Kind:    EventUndone,
		Payload: UndonePayload{By: seat, State: t.game.State(), Turn: turn},
	}}
	if t.game.State() != domain.StatePlaying {
		return events, nil
	}
	// The card went back into a hand; resend hands so clients resync.
	for _, other := range domain.Seats {
		hand, err := t.game.Hand(other)
		if err != nil {
			continue
		}
		if t.game.Revealed(other) {
			events = append(events, Event{
				Kind:    EventHandRevealed,
				Payload: HandRevealedPayload{Seat: other, Hand: hand},
			})
			continue
		}
		if owner := t.UserAt(other); owner != "" {
			events = append(events, Event{
				Kind:       EventHandDealt,
				Payload:    HandDealtPayload{Seat: other, Hand: hand},
				Recipients: []string{owner},
			})
		}
	}
	return events, nil
}

// Claim ends play with userID's seat claiming tricks of those remaining.
func (s *Service) Claim(t *Table, userID string, tricks int) ([]Event, error) {
	if !t.rules.AllowClaim {
		return nil, ErrClaimDisabled
	}
	seat, ok := t.SeatOf(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if err := t.game.Claim(seat, tricks); err != nil {
		return nil, err
	}
	return []Event{s.gameEnded(t)}, nil
}

func (s *Service) gameEnded(t *Table) Event {
	result, _ := t.game.LastResult()
	payload := GameEndedPayload{Result: result, Hands: make(map[domain.Seat]domain.Hand, domain.SeatCount)}
	for _, seat := range domain.Seats {
		if hand, err := t.game.Hand(seat); err == nil {
			payload.Hands[seat] = hand
		}
	}
	if rubbers := t.game.Rubbers(); len(rubbers) > 0 {
		last := rubbers[len(rubbers)-1]
		if _, won := last.Winner(); won && t.game.Scoring() == domain.ScoringRubber {
			payload.RubberBonus = last.Bonus()
		}
	}
	return Event{Kind: EventGameEnded, Payload: payload}
}

// ScoreUpdates converts result into leaderboard increments for the users
// currently seated. Only positive points are reported.
func (s *Service) ScoreUpdates(t *Table, result domain.Result) []ports.ScoreUpdate {
	var updates []ports.ScoreUpdate
	for _, seat := range domain.Seats {
		u := t.seats[seat]
		if u == nil {
			continue
		}
		points := result.Points(seat.Partnership())
		if points <= 0 {
			continue
		}
		contract := "passed out"
		if result.Contract != nil {
			contract = result.Contract.String()
		}
		updates = append(updates, ports.ScoreUpdate{
			UserID:   u.userID,
			Username: u.username,
			Points:   int64(points),
			Metadata: map[string]interface{}{
				"board":    result.BoardNumber,
				"seat":     seat.String(),
				"contract": contract,
				"scoring":  result.Scoring.String(),
				"score":    fmt.Sprintf("%+d", result.Score),
			},
		})
	}
	return updates
}
