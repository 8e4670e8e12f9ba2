package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"bridge/internal/app"
	"bridge/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ReserveSeatResponse is returned by the reserve_seat RPC. Token goes in the
// "seat_token" join metadata.
type ReserveSeatResponse struct {
	MatchID string      `json:"match_id"`
	Seat    domain.Seat `json:"seat"`
	Token   string      `json:"token"`
}

type reserveSeatRequest struct {
	MatchID string `json:"match_id"`
	Seat    string `json:"seat"`
}

// matchSignaler is the slice of runtime.NakamaModule reserve_seat uses.
type matchSignaler interface {
	MatchSignal(ctx context.Context, id string, data string) (string, error)
}

// rpcReserveSeat holds a seat in a match for the caller.
//
// Payload: {"match_id": "...", "seat": "east"} (seat optional).
// Returns: ReserveSeatResponse JSON.
func rpcReserveSeat(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return reserveSeat(ctx, logger, nk, seatTokens, payload)
}

func reserveSeat(ctx context.Context, logger runtime.Logger, nk matchSignaler, tokens *app.SeatTokenService, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16) // UNAUTHENTICATED
	}
	if tokens == nil {
		return "", runtime.NewError("seat reservations are disabled", 9) // FAILED_PRECONDITION
	}

	var req reserveSeatRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}

	signal, _ := json.Marshal(seatSignal{UserID: userID, Seat: req.Seat})
	raw, err := nk.MatchSignal(ctx, req.MatchID, string(signal))
	if err != nil {
		logger.Error("RpcReserveSeat [User:%s]: Failed to signal match %s: %v", userID, req.MatchID, err)
		return "", runtime.NewError("match not found", 5) // NOT_FOUND
	}
	var reply seatSignalReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		logger.Error("RpcReserveSeat [User:%s]: Bad reply from match %s: %v", userID, req.MatchID, err)
		return "", runtime.NewError("internal error", 13) // INTERNAL
	}
	if reply.Error != "" {
		return "", runtime.NewError(reply.Error, 9)
	}

	token, err := tokens.GenerateToken(userID, req.MatchID, reply.Seat)
	if err != nil {
		logger.Error("RpcReserveSeat [User:%s]: Failed to sign token: %v", userID, err)
		return "", runtime.NewError("internal error", 13)
	}

	logger.Info("RpcReserveSeat [User:%s]: Holding %s in match %s", userID, reply.Seat, req.MatchID)
	out, _ := json.Marshal(ReserveSeatResponse{MatchID: req.MatchID, Seat: reply.Seat, Token: token})
	return string(out), nil
}
