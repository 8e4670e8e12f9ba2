package nakama

import (
	"encoding/json"
	"errors"
	"fmt"

	"bridge/internal/app"
	"bridge/internal/domain"
)

type callRequest struct {
	Call string `json:"call"`
}

type cardRequest struct {
	Card string `json:"card"`
}

type claimRequest struct {
	Tricks *int `json:"tricks"`
}

func decodeCall(data []byte) (domain.Call, error) {
	var req callRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return domain.Call{}, fmt.Errorf("invalid call payload: %w", err)
	}
	return domain.ParseCall(req.Call)
}

func decodeCard(data []byte) (domain.Card, error) {
	var req cardRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return domain.Card{}, fmt.Errorf("invalid card payload: %w", err)
	}
	return domain.ParseCard(req.Card)
}

func decodeClaim(data []byte) (int, error) {
	var req claimRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return 0, fmt.Errorf("invalid claim payload: %w", err)
	}
	if req.Tricks == nil {
		return 0, fmt.Errorf("invalid claim payload: tricks is required")
	}
	return *req.Tricks, nil
}

// errorPayload is sent with OpGameError to the presence whose message failed.
type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorCode maps app and domain errors to HTTP-like status codes for clients.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNotOwner),
		errors.Is(err, app.ErrUnknownPlayer),
		errors.Is(err, app.ErrUndoDisabled),
		errors.Is(err, app.ErrClaimDisabled),
		errors.Is(err, domain.ErrDummyCannotPlay):
		return 403
	case errors.Is(err, domain.ErrOutOfTurn),
		errors.Is(err, domain.ErrNoGame),
		errors.Is(err, domain.ErrNotReady),
		errors.Is(err, domain.ErrGameInProgress),
		errors.Is(err, domain.ErrAuctionComplete),
		errors.Is(err, domain.ErrPlayComplete),
		errors.Is(err, domain.ErrClaimDuringAuction),
		errors.Is(err, app.ErrTooFewPlayers),
		errors.Is(err, app.ErrNothingToUndo):
		return 409
	default:
		return 400
	}
}

// seatView describes one seat in the table state broadcast.
type seatView struct {
	Seat      domain.Seat `json:"seat"`
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Owner     bool        `json:"owner"`
	Connected bool        `json:"connected"`
	Reserved  bool        `json:"reserved"`
}

// tableView is the OpTableState payload.
type tableView struct {
	Seats   []seatView       `json:"seats"`
	State   domain.GameState `json:"state"`
	Scoring domain.Scoring   `json:"scoring"`
	Boards  int              `json:"boards"`
	Tick    int64            `json:"tick"`
}

func buildTableView(state *MatchState) tableView {
	table := state.Table
	owner := table.Owner()
	names := table.Usernames()
	view := tableView{
		Seats:   make([]seatView, 0, domain.SeatCount),
		State:   table.Game().State(),
		Scoring: table.Rules().Scoring,
		Boards:  len(table.Game().Results()),
		Tick:    state.Tick,
	}
	for _, seat := range domain.Seats {
		userID := table.UserAt(seat)
		_, connected := state.Presences[userID]
		view.Seats = append(view.Seats, seatView{
			Seat:      seat,
			UserID:    userID,
			Username:  names[userID],
			Owner:     userID != "" && userID == owner,
			Connected: userID != "" && connected,
			Reserved:  userID == "" && state.reservedBy(seat) != "",
		})
	}
	return view
}
