package nakama

import (
	"context"
	"database/sql"

	"bridge/internal/app"
	"bridge/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	moduleSettings config.Settings
	seatTokens     *app.SeatTokenService
)

// InitModule wires RPCs, the leaderboard and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	settings, err := config.ParseSettings(env)
	if err != nil {
		logger.Error("InitModule: %v", err)
		return err
	}
	moduleSettings = settings

	if err := config.LoadGameConfig(settings.GameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}

	if settings.SeatTokensEnabled() {
		seatTokens = app.NewSeatTokenService(settings.SeatTokenSecret, settings.SeatTokenIssuer, settings.SeatTokenTTL)
	} else {
		logger.Warn("InitModule: BRIDGE_SEAT_TOKEN_SECRET not set, seat reservations disabled.")
	}

	if err := nk.LeaderboardCreate(ctx, settings.LeaderboardID, true, "desc", "incr", "", nil, false); err != nil {
		logger.Error("InitModule: Failed to create leaderboard %s: %v", settings.LeaderboardID, err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameBridge, NewMatch); err != nil {
		return err
	}

	logger.Info("Bridge Go module loaded.")
	return nil
}
