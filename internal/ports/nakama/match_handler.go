package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bridge/internal/app"
	"bridge/internal/app/standings"
	"bridge/internal/config"
	"bridge/internal/domain"
	"bridge/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label
	MatchLabelGame          = "bridge"

	matchTickRate = 1
	// emptyMatchTicks is how long a match with nobody connected survives.
	emptyMatchTicks = 60
)

// reservation holds a seat for a user who called reserve_seat.
type reservation struct {
	Seat      domain.Seat `json:"seat"`
	ExpiresAt int64       `json:"expires_at"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	MatchID          string                      `json:"match_id"`
	Tick             int64                       `json:"tick"`              // Current tick of the match
	EmptySince       int64                       `json:"empty_since"`       // Tick the last presence left, 0 while occupied
	ReservationTicks int64                       `json:"reservation_ticks"` // Ticks a reserved seat is held
	Reservations     map[string]reservation      `json:"reservations"`      // UserId -> held seat
	Presences        map[string]runtime.Presence `json:"-"`                 // Map UserId -> Presence for targeted messaging
	App              *app.Service                `json:"-"`                 // Bridge app service with table use-cases
	Table            *app.Table                  `json:"-"`                 // Seats and the running game
	Tokens           *app.SeatTokenService       `json:"-"`                 // Nil when seat reservations are disabled
	Standings        *standings.Service          `json:"-"`                 // Leaderboard writer for finished boards
	pendingSeats     map[string]domain.Seat      `json:"-"`                 // Seats granted in MatchJoinAttempt
}

func newMatchState(matchID string, rules config.TableRules, tokens *app.SeatTokenService, scores ports.ScorePort, reservationTTL time.Duration) *MatchState {
	svc := app.NewService(nil)
	return &MatchState{
		MatchID:          matchID,
		ReservationTicks: int64(reservationTTL/time.Second) * matchTickRate,
		Reservations:     make(map[string]reservation),
		Presences:        make(map[string]runtime.Presence),
		App:              svc,
		Table:            svc.NewTable(rules),
		Tokens:           tokens,
		Standings:        standings.NewService(scores),
		pendingSeats:     make(map[string]domain.Seat),
	}
}

// reservedBy returns the user holding seat, or "".
func (ms *MatchState) reservedBy(seat domain.Seat) string {
	for userID, r := range ms.Reservations {
		if r.Seat == seat && r.ExpiresAt > ms.Tick {
			return userID
		}
	}
	return ""
}

// GetOpenSeatsCount counts seats that are neither taken nor held.
func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range domain.Seats {
		if ms.Table.UserAt(seat) == "" && ms.reservedBy(seat) == "" {
			count++
		}
	}
	return count
}

// seatFor picks the seat userID may take: a held seat, else preferred when
// open, else the first open seat clockwise from North.
func (ms *MatchState) seatFor(userID string, preferred domain.Seat) (domain.Seat, bool) {
	if r, ok := ms.Reservations[userID]; ok && r.ExpiresAt > ms.Tick && ms.Table.UserAt(r.Seat) == "" {
		return r.Seat, true
	}
	open := func(s domain.Seat) bool {
		holder := ms.reservedBy(s)
		return ms.Table.UserAt(s) == "" && (holder == "" || holder == userID)
	}
	if preferred.Valid() && open(preferred) {
		return preferred, true
	}
	for _, s := range domain.Seats {
		if open(s) {
			return s, true
		}
	}
	return domain.NoSeat, false
}

func (ms *MatchState) expireReservations() {
	for userID, r := range ms.Reservations {
		if r.ExpiresAt <= ms.Tick {
			delete(ms.Reservations, userID)
		}
	}
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{scores: NewNakamaScoreAdapter(nk, moduleSettings.LeaderboardID)}, nil
}

type matchHandler struct {
	scores ports.ScorePort
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	override := moduleSettings.Scoring
	if v, ok := params["scoring"].(string); ok && v != "" {
		override = v
	}
	rules := config.CurrentRules(override)
	state := newMatchState(matchID, rules, seatTokens, mh.scores, moduleSettings.SeatTokenTTL)

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Info("MatchInit: Match %s created with %s scoring (undo=%t, claim=%t).", matchID, rules.Scoring, rules.AllowUndo, rules.AllowClaim)
	return state, matchTickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	userID := presence.GetUserId()

	// A second session for a seated user just watches.
	if _, seated := matchState.Table.SeatOf(userID); seated {
		return matchState, true, ""
	}

	preferred := domain.NoSeat
	if token := metadata[JoinMetadataSeatToken]; token != "" {
		seat, err := matchState.Tokens.VerifyToken(token, userID, matchState.MatchID)
		if err != nil {
			logger.Warn("MatchJoinAttempt: Rejected seat token from %s: %v", userID, err)
			return matchState, false, "invalid seat token"
		}
		preferred = seat
	} else if name := metadata[JoinMetadataSeat]; name != "" {
		seat, err := domain.ParseSeat(name)
		if err != nil {
			return matchState, false, err.Error()
		}
		preferred = seat
	}

	seat, ok := matchState.seatFor(userID, preferred)
	if !ok {
		return matchState, false, "Match full"
	}
	if metadata[JoinMetadataSeatToken] != "" && seat != preferred {
		return matchState, false, fmt.Sprintf("seat %s is taken", preferred)
	}
	matchState.pendingSeats[userID] = seat
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p
		matchState.EmptySince = 0

		if _, seated := matchState.Table.SeatOf(userID); seated {
			mh.sendState(matchState, dispatcher, logger, userID)
			continue
		}

		seat, ok := matchState.pendingSeats[userID]
		delete(matchState.pendingSeats, userID)
		if !ok || matchState.Table.UserAt(seat) != "" {
			seat, ok = matchState.seatFor(userID, domain.NoSeat)
		}
		if !ok {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", userID)
			continue
		}

		events, err := matchState.App.Join(matchState.Table, userID, p.GetUsername(), seat)
		if err != nil {
			logger.Warn("MatchJoin: User %s could not take seat %s: %v", userID, seat, err)
			continue
		}
		delete(matchState.Reservations, userID)
		logger.Debug("MatchJoin: User %s seated at %s.", userID, seat)

		for _, ev := range events {
			mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
		}
		mh.sendState(matchState, dispatcher, logger, userID)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		if current, ok := matchState.Presences[userID]; ok && current.GetSessionId() != p.GetSessionId() {
			continue // an older session of a user still connected
		}
		delete(matchState.Presences, userID)

		events, err := matchState.App.Leave(matchState.Table, userID, true)
		if err != nil {
			logger.Debug("MatchLeave: User %s had no seat: %v", userID, err)
			continue
		}
		logger.Debug("MatchLeave: User %s left, seat freed.", userID)
		for _, ev := range events {
			mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
		}
	}

	if len(matchState.Presences) == 0 && matchState.EmptySince == 0 {
		matchState.EmptySince = tick
	}
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	held := len(matchState.Reservations)
	matchState.expireReservations()
	if len(matchState.Reservations) != held {
		mh.updateLabel(matchState, dispatcher, logger)
	}

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	if matchState.EmptySince > 0 && len(matchState.Reservations) == 0 && tick-matchState.EmptySince >= emptyMatchTicks {
		logger.Info("MatchLoop: Terminating match with nobody connected.")
		return nil
	}
	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	switch msg.GetOpCode() {
	case OpStartGame:
		logger.Info("StartGame: Request received from %s (owner=%s, occupied=%d)", userID, state.Table.Owner(), state.Table.Occupied())
		mh.apply(ctx, state, dispatcher, logger, "StartGame", userID, func() ([]app.Event, error) {
			return state.App.StartGame(state.Table, userID)
		})
		mh.updateLabel(state, dispatcher, logger)
	case OpMakeCall:
		mh.apply(ctx, state, dispatcher, logger, "MakeCall", userID, func() ([]app.Event, error) {
			call, err := decodeCall(msg.GetData())
			if err != nil {
				return nil, err
			}
			return state.App.MakeCall(state.Table, userID, call)
		})
	case OpPlayCard:
		mh.apply(ctx, state, dispatcher, logger, "PlayCard", userID, func() ([]app.Event, error) {
			card, err := decodeCard(msg.GetData())
			if err != nil {
				return nil, err
			}
			return state.App.PlayCard(state.Table, userID, card)
		})
	case OpUndo:
		mh.apply(ctx, state, dispatcher, logger, "Undo", userID, func() ([]app.Event, error) {
			return state.App.Undo(state.Table, userID)
		})
	case OpClaim:
		mh.apply(ctx, state, dispatcher, logger, "Claim", userID, func() ([]app.Event, error) {
			tricks, err := decodeClaim(msg.GetData())
			if err != nil {
				return nil, err
			}
			return state.App.Claim(state.Table, userID, tricks)
		})
	case OpRequestState:
		mh.sendState(state, dispatcher, logger, userID)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
	}
}

// apply runs one client command and dispatches its events, or reports the
// error to the sender.
func (mh *matchHandler) apply(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, name, userID string, run func() ([]app.Event, error)) {
	events, err := run()
	if err != nil {
		logger.Warn("%s: User %s failed: %v", name, userID, err)
		mh.sendError(state, dispatcher, logger, userID, errorCode(err), err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64

	switch ev.Kind {
	case app.EventPlayerJoined:
		mh.broadcastTableState(state, dispatcher, logger)
		return
	case app.EventPlayerLeft:
		opCode = OpPlayerLeft
		defer mh.broadcastTableState(state, dispatcher, logger)
	case app.EventGameStarted:
		opCode = OpGameStarted
	case app.EventHandDealt:
		opCode = OpHandDealt
	case app.EventCallMade:
		opCode = OpCallMade
	case app.EventCardPlayed:
		opCode = OpCardPlayed
	case app.EventHandRevealed:
		opCode = OpHandRevealed
	case app.EventUndone:
		opCode = OpUndone
	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)
		logger.Info("GameEnded: Board %d finished, score %d.", p.Result.BoardNumber, p.Result.Score)
		mh.recordScores(ctx, state, logger, p.Result)
		defer mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Private events must never fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

func (mh *matchHandler) recordScores(ctx context.Context, state *MatchState, logger runtime.Logger, result domain.Result) {
	if state.Standings == nil {
		return
	}
	updates := state.App.ScoreUpdates(state.Table, result)
	for i := range updates {
		updates[i].Metadata["match_id"] = state.MatchID
	}
	recorded, err := state.Standings.RecordBoard(ctx, updates)
	if err != nil {
		logger.Error("GameEnded: Failed to record scores: %v", err)
		return
	}
	logger.Debug("GameEnded: Recorded %d leaderboard scores.", recorded.Recorded)
}

func (mh *matchHandler) broadcastTableState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	bytes, err := json.Marshal(buildTableView(state))
	if err != nil {
		logger.Error("Failed to marshal table state: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpTableState, bytes, nil, nil, true)
}

// sendState sends userID the game snapshot with only the hands they may see.
func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	bytes, err := json.Marshal(state.Table.SnapshotFor(userID))
	if err != nil {
		logger.Error("Failed to marshal snapshot for %s: %v", userID, err)
		return
	}
	dispatcher.BroadcastMessage(OpGameState, bytes, []runtime.Presence{presence}, nil, true)
}

// sendError sends an error payload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(errorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

// matchLabel renders the label quick match filters on.
func matchLabel(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Table.Game().InProgress() {
		phase = "playing"
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":                  MatchLabelGame,
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		"state":                 phase,
		"scoring":               state.Table.Rules().Scoring.String(),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

// seatSignal is the MatchSignal payload sent by the reserve_seat RPC.
type seatSignal struct {
	UserID string `json:"user_id"`
	Seat   string `json:"seat"`
}

// seatSignalReply answers a seatSignal with the held seat or an error.
type seatSignalReply struct {
	Seat  domain.Seat `json:"seat"`
	Error string      `json:"error,omitempty"`
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	reply := mh.reserveSeat(matchState, tick, data)
	if reply.Error == "" {
		logger.Info("MatchSignal: Seat %s held for %s.", reply.Seat, matchState.reservedBy(reply.Seat))
		mh.updateLabel(matchState, dispatcher, logger)
	}
	out, err := json.Marshal(reply)
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal reply: %v", err)
		return matchState, ""
	}
	return matchState, string(out)
}

func (mh *matchHandler) reserveSeat(state *MatchState, tick int64, data string) seatSignalReply {
	state.Tick = tick
	state.expireReservations()

	var req seatSignal
	if err := json.Unmarshal([]byte(data), &req); err != nil || req.UserID == "" {
		return seatSignalReply{Seat: domain.NoSeat, Error: "invalid reservation request"}
	}
	if seat, seated := state.Table.SeatOf(req.UserID); seated {
		return seatSignalReply{Seat: seat}
	}
	preferred := domain.NoSeat
	if req.Seat != "" {
		seat, err := domain.ParseSeat(req.Seat)
		if err != nil {
			return seatSignalReply{Seat: domain.NoSeat, Error: err.Error()}
		}
		preferred = seat
	}
	seat, ok := state.seatFor(req.UserID, preferred)
	if !ok {
		return seatSignalReply{Seat: domain.NoSeat, Error: "match full"}
	}
	if preferred != domain.NoSeat && seat != preferred {
		return seatSignalReply{Seat: domain.NoSeat, Error: fmt.Sprintf("seat %s is taken", preferred)}
	}
	state.Reservations[req.UserID] = reservation{Seat: seat, ExpiresAt: tick + state.ReservationTicks}
	return seatSignalReply{Seat: seat}
}
