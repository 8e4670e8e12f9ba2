package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"bridge/internal/domain"
)

// settingsEnv holds raw env values before post-parse validation.
type settingsEnv struct {
	GameConfigPath  string        `env:"BRIDGE_GAME_CONFIG" envDefault:"/nakama/data/modules/game_config.json"`
	SeatTokenSecret string        `env:"BRIDGE_SEAT_TOKEN_SECRET"`
	SeatTokenIssuer string        `env:"BRIDGE_SEAT_TOKEN_ISSUER" envDefault:"bridge"`
	SeatTokenTTL    time.Duration `env:"BRIDGE_SEAT_TOKEN_TTL" envDefault:"10m"`
	LeaderboardID   string        `env:"BRIDGE_LEADERBOARD_ID" envDefault:"bridge_points"`
	ScoringOverride string        `env:"BRIDGE_SCORING"`
}

// Settings is the deployment configuration read from the Nakama runtime env.
type Settings struct {
	GameConfigPath  string
	SeatTokenSecret string
	SeatTokenIssuer string
	SeatTokenTTL    time.Duration
	LeaderboardID   string
	Scoring         string
}

// SeatTokensEnabled reports whether seat reservations can be issued.
func (s Settings) SeatTokensEnabled() bool {
	return s.SeatTokenSecret != ""
}

// ParseSettings reads Settings from vars, the runtime environment map.
func ParseSettings(vars map[string]string) (Settings, error) {
	var raw settingsEnv
	if err := env.ParseWithOptions(&raw, env.Options{Environment: vars}); err != nil {
		return Settings{}, fmt.Errorf("parse bridge env: %w", err)
	}

	s := Settings{
		GameConfigPath:  strings.TrimSpace(raw.GameConfigPath),
		SeatTokenSecret: strings.TrimSpace(raw.SeatTokenSecret),
		SeatTokenIssuer: strings.TrimSpace(raw.SeatTokenIssuer),
		SeatTokenTTL:    raw.SeatTokenTTL,
		LeaderboardID:   strings.TrimSpace(raw.LeaderboardID),
		Scoring:         strings.ToLower(strings.TrimSpace(raw.ScoringOverride)),
	}
	if s.SeatTokensEnabled() && s.SeatTokenIssuer == "" {
		return Settings{}, fmt.Errorf("BRIDGE_SEAT_TOKEN_ISSUER is required when BRIDGE_SEAT_TOKEN_SECRET is set")
	}
	if s.SeatTokenTTL <= 0 {
		return Settings{}, fmt.Errorf("BRIDGE_SEAT_TOKEN_TTL must be positive")
	}
	if s.Scoring != "" {
		if _, err := domain.ParseScoring(s.Scoring); err != nil {
			return Settings{}, fmt.Errorf("BRIDGE_SCORING: %w", err)
		}
	}
	return s, nil
}
