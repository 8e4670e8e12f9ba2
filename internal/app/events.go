package app

import "bridge/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventPlayerLeft   EventKind = "player_left"
	EventGameStarted  EventKind = "game_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventCallMade     EventKind = "call_made"
	EventCardPlayed   EventKind = "card_played"
	EventHandRevealed EventKind = "hand_revealed"
	EventUndone       EventKind = "undone"
	EventGameEnded    EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string      `json:"user_id"`
	Seat   domain.Seat `json:"seat"`
	Owner  bool        `json:"owner"`
}

type PlayerLeftPayload struct {
	UserID string      `json:"user_id"`
	Seat   domain.Seat `json:"seat"`
}

type GameStartedPayload struct {
	BoardNumber   int                  `json:"board_number"`
	Dealer        domain.Seat          `json:"dealer"`
	Vulnerability domain.Vulnerability `json:"vulnerability"`
	Turn          domain.Seat          `json:"turn"`
}

type HandDealtPayload struct {
	Seat domain.Seat `json:"seat"`
	Hand domain.Hand `json:"hand"`
}

type CallMadePayload struct {
	Seat     domain.Seat      `json:"seat"`
	Call     domain.Call      `json:"call"`
	NextTurn domain.Seat      `json:"next_turn"`
	Contract *domain.Contract `json:"contract,omitempty"`
}

// CardPlayedPayload reports a card. Seat is the hand it came from;
// PlayedBy differs from Seat when declarer plays from dummy.
type CardPlayedPayload struct {
	Seat        domain.Seat `json:"seat"`
	PlayedBy    domain.Seat `json:"played_by"`
	Card        domain.Card `json:"card"`
	TrickWinner domain.Seat `json:"trick_winner"`
	NextTurn    domain.Seat `json:"next_turn"`
}

type HandRevealedPayload struct {
	Seat domain.Seat `json:"seat"`
	Hand domain.Hand `json:"hand"`
}

type UndonePayload struct {
	By    domain.Seat      `json:"by"`
	State domain.GameState `json:"state"`
	Turn  domain.Seat      `json:"turn"`
}

type GameEndedPayload struct {
	Result      domain.Result               `json:"result"`
	Hands       map[domain.Seat]domain.Hand `json:"hands"`
	RubberBonus int                         `json:"rubber_bonus,omitempty"`
}
