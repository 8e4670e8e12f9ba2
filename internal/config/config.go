package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"bridge/internal/domain"
)

// DefaultQuickMatchLimit is how many open tables quick match inspects when no config is loaded.
const DefaultQuickMatchLimit = 10

// GameConfig holds the table rules shared by every match.
type GameConfig struct {
	Scoring         string `json:"scoring"`
	AllowUndo       bool   `json:"allow_undo"`
	AllowClaim      bool   `json:"allow_claim"`
	QuickMatchLimit int    `json:"quick_match_limit"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		if c.Scoring != "" {
			if _, err := domain.ParseScoring(c.Scoring); err != nil {
				loadErr = fmt.Errorf("invalid game config: %w", err)
				return
			}
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetScoring returns the configured scoring, duplicate when unset.
func GetScoring() domain.Scoring {
	if cfg == nil || cfg.Scoring == "" {
		return domain.ScoringDuplicate
	}
	s, err := domain.ParseScoring(cfg.Scoring)
	if err != nil {
		return domain.ScoringDuplicate
	}
	return s
}

// UndoAllowed reports whether players may take back calls and cards.
// Undo is off unless the config enables it.
func UndoAllowed() bool {
	return cfg != nil && cfg.AllowUndo
}

// ClaimAllowed reports whether declarer or defenders may claim.
// Claims are allowed when no config is loaded.
func ClaimAllowed() bool {
	return cfg == nil || cfg.AllowClaim
}

// GetQuickMatchLimit returns how many open matches quick match lists.
func GetQuickMatchLimit() int {
	if cfg == nil || cfg.QuickMatchLimit <= 0 {
		return DefaultQuickMatchLimit
	}
	return cfg.QuickMatchLimit
}

// TableRules is the per-table snapshot of the rules above.
type TableRules struct {
	Scoring    domain.Scoring
	AllowUndo  bool
	AllowClaim bool
}

// CurrentRules builds TableRules from the loaded config, with override
// taking precedence for scoring when non-empty.
func CurrentRules(override string) TableRules {
	rules := TableRules{
		Scoring:    GetScoring(),
		AllowUndo:  UndoAllowed(),
		AllowClaim: ClaimAllowed(),
	}
	if override != "" {
		if s, err := domain.ParseScoring(override); err == nil {
			rules.Scoring = s
		}
	}
	return rules
}
