package nakama

import (
	"context"
	"fmt"

	"bridge/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
)

// leaderboardWriter is the slice of runtime.NakamaModule the score adapter uses.
type leaderboardWriter interface {
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
}

// NakamaScoreAdapter implements ports.ScorePort on a Nakama leaderboard
// created with the "incr" operator.
type NakamaScoreAdapter struct {
	nk            leaderboardWriter
	leaderboardID string
}

// NewNakamaScoreAdapter creates a new score adapter.
func NewNakamaScoreAdapter(nk leaderboardWriter, leaderboardID string) *NakamaScoreAdapter {
	return &NakamaScoreAdapter{
		nk:            nk,
		leaderboardID: leaderboardID,
	}
}

// RecordScores adds each update's points to its owner's leaderboard record.
func (a *NakamaScoreAdapter) RecordScores(ctx context.Context, updates []ports.ScoreUpdate) error {
	for _, update := range updates {
		if update.Points <= 0 {
			continue
		}
		if _, err := a.nk.LeaderboardRecordWrite(ctx, a.leaderboardID, update.UserID, update.Username, update.Points, 0, update.Metadata, nil); err != nil {
			return fmt.Errorf("failed to write score for user %s: %w", update.UserID, err)
		}
	}
	return nil
}

var _ ports.ScorePort = (*NakamaScoreAdapter)(nil)
