package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bridge/internal/domain"
)

func resetConfig(t *testing.T) {
	t.Helper()
	cfg, loadErr, loadOnce = nil, nil, sync.Once{}
	t.Cleanup(func() { cfg, loadErr, loadOnce = nil, nil, sync.Once{} })
}

func TestDefaultsWithoutConfig(t *testing.T) {
	resetConfig(t)
	if GetScoring() != domain.ScoringDuplicate {
		t.Fatalf("GetScoring() = %v, want duplicate", GetScoring())
	}
	if UndoAllowed() {
		t.Fatalf("UndoAllowed() = true without config")
	}
	if !ClaimAllowed() {
		t.Fatalf("ClaimAllowed() = false without config")
	}
	if got := GetQuickMatchLimit(); got != DefaultQuickMatchLimit {
		t.Fatalf("GetQuickMatchLimit() = %d, want %d", got, DefaultQuickMatchLimit)
	}
}

func TestLoadGameConfig(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "game_config.json")
	body := `{"scoring":"rubber","allow_undo":true,"allow_claim":false,"quick_match_limit":4}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("LoadGameConfig() error = %v", err)
	}

	rules := CurrentRules("")
	if rules.Scoring != domain.ScoringRubber || !rules.AllowUndo || rules.AllowClaim {
		t.Fatalf("CurrentRules() = %+v", rules)
	}
	if got := GetQuickMatchLimit(); got != 4 {
		t.Fatalf("GetQuickMatchLimit() = %d, want 4", got)
	}
	if got := CurrentRules("leonardo").Scoring; got != domain.ScoringLeonardo {
		t.Fatalf("override scoring = %v, want leonardo", got)
	}
}

func TestLoadGameConfigRejectsUnknownScoring(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "game_config.json")
	if err := os.WriteFile(path, []byte(`{"scoring":"chicago"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := LoadGameConfig(path); err == nil {
		t.Fatalf("LoadGameConfig() accepted unknown scoring")
	}
	if GetGameConfig() != nil {
		t.Fatalf("invalid config was stored")
	}
}

func TestLoadGameConfigMissingFile(t *testing.T) {
	resetConfig(t)
	err := LoadGameConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to read game config") {
		t.Fatalf("LoadGameConfig() error = %v", err)
	}
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    Settings
		wantErr string
	}{
		{
			name: "defaults",
			vars: map[string]string{},
			want: Settings{
				GameConfigPath:  "/nakama/data/modules/game_config.json",
				SeatTokenIssuer: "bridge",
				SeatTokenTTL:    10 * time.Minute,
				LeaderboardID:   "bridge_points",
			},
		},
		{
			name: "explicit values are trimmed",
			vars: map[string]string{
				"BRIDGE_SEAT_TOKEN_SECRET": " s3cret ",
				"BRIDGE_SEAT_TOKEN_TTL":    "90s",
				"BRIDGE_LEADERBOARD_ID":    "weekly",
				"BRIDGE_SCORING":           "Rubber",
			},
			want: Settings{
				GameConfigPath:  "/nakama/data/modules/game_config.json",
				SeatTokenSecret: "s3cret",
				SeatTokenIssuer: "bridge",
				SeatTokenTTL:    90 * time.Second,
				LeaderboardID:   "weekly",
				Scoring:         "rubber",
			},
		},
		{
			name:    "bad duration",
			vars:    map[string]string{"BRIDGE_SEAT_TOKEN_TTL": "soon"},
			wantErr: "parse bridge env",
		},
		{
			name:    "negative duration",
			vars:    map[string]string{"BRIDGE_SEAT_TOKEN_TTL": "-1m"},
			wantErr: "must be positive",
		},
		{
			name:    "unknown scoring",
			vars:    map[string]string{"BRIDGE_SCORING": "chicago"},
			wantErr: "BRIDGE_SCORING",
		},
		{
			name:    "secret without issuer",
			vars:    map[string]string{"BRIDGE_SEAT_TOKEN_SECRET": "x", "BRIDGE_SEAT_TOKEN_ISSUER": " "},
			wantErr: "BRIDGE_SEAT_TOKEN_ISSUER is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSettings(tt.vars)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseSettings() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSettings() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
