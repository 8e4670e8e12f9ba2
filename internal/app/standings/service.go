package standings

import (
	"context"
	"fmt"

	"bridge/internal/ports"
)

// Result captures non-fatal recording outcomes.
type Result struct {
	// Recorded is how many score updates reached the leaderboard.
	Recorded int
	// Skipped lists user IDs dropped for a missing ID or non-positive points.
	Skipped []string
}

// Service writes finished board scores to the leaderboard port.
type Service struct {
	scores ports.ScorePort
}

// NewService constructs a standings service. scores must be non-nil.
func NewService(scores ports.ScorePort) *Service {
	return &Service{scores: scores}
}

// RecordBoard posts the positive increments in updates.
// Side effects: one leaderboard write per accepted update.
func (s *Service) RecordBoard(ctx context.Context, updates []ports.ScoreUpdate) (Result, error) {
	if s == nil || s.scores == nil {
		return Result{}, fmt.Errorf("standings service not configured")
	}

	result := Result{}
	accepted := make([]ports.ScoreUpdate, 0, len(updates))
	for _, u := range updates {
		if u.UserID == "" || u.Points <= 0 {
			result.Skipped = append(result.Skipped, u.UserID)
			continue
		}
		accepted = append(accepted, u)
	}
	if len(accepted) == 0 {
		return result, nil
	}

	if err := s.scores.RecordScores(ctx, accepted); err != nil {
		return result, fmt.Errorf("failed to record board scores: %w", err)
	}
	result.Recorded = len(accepted)
	return result, nil
}
