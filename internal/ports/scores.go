package ports

import "context"

// ScoreUpdate is the points one player earned on a board.
type ScoreUpdate struct {
	UserID   string
	Username string
	Points   int64
	Metadata map[string]interface{}
}

// ScorePort records board points for players.
type ScorePort interface {
	// RecordScores adds each update to the player's running total.
	// Updates with zero points may be skipped.
	RecordScores(ctx context.Context, updates []ScoreUpdate) error
}
