package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bridge/internal/config"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a table with a free seat.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// quickMatchRequest optionally pins the scoring of the table to find.
type quickMatchRequest struct {
	Scoring string `json:"scoring"`
}

// matchFinder is the slice of runtime.NakamaModule quick match uses.
type matchFinder interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcReserveSeat, rpcReserveSeat)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return quickMatch(ctx, logger, nk, payload)
}

func quickMatch(ctx context.Context, logger runtime.Logger, nk matchFinder, payload string) (string, error) {
	var req quickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}

	// Find any bridge table with a free, unreserved seat.
	query := fmt.Sprintf("+label.game:%s +label.%s:>=1", MatchLabelGame, MatchLabelKey_OpenSeats)
	if req.Scoring != "" {
		query += " +label.scoring:" + req.Scoring
	}

	limit := config.GetQuickMatchLimit()
	authoritative := true

	minSize := 1
	maxSize := 3 // ensure < 4 players

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	// Create new match; seat/owner assignment happens in MatchJoin (server-authoritative).
	params := map[string]interface{}{}
	if req.Scoring != "" {
		params["scoring"] = req.Scoring
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameBridge, params)
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
