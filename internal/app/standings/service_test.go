package standings

import (
	"context"
	"errors"
	"testing"

	"bridge/internal/ports"
)

type fakeScorePort struct {
	err     error
	updates []ports.ScoreUpdate
}

func (f *fakeScorePort) RecordScores(ctx context.Context, updates []ports.ScoreUpdate) error {
	f.updates = append(f.updates, updates...)
	return f.err
}

func TestRecordBoard_PostsPositiveScores(t *testing.T) {
	scores := &fakeScorePort{}
	service := NewService(scores)

	result, err := service.RecordBoard(context.Background(), []ports.ScoreUpdate{
		{UserID: "north", Points: 420},
		{UserID: "east", Points: 0},
		{UserID: "south", Points: 420},
		{UserID: "", Points: 50},
	})
	if err != nil {
		t.Fatalf("RecordBoard returned error: %v", err)
	}
	if result.Recorded != 2 {
		t.Fatalf("Recorded = %d, want 2", result.Recorded)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 entries", result.Skipped)
	}
	if len(scores.updates) != 2 || scores.updates[0].UserID != "north" || scores.updates[1].UserID != "south" {
		t.Fatalf("posted updates = %+v", scores.updates)
	}
}

func TestRecordBoard_NothingToPost(t *testing.T) {
	scores := &fakeScorePort{err: errors.New("should not be called")}
	service := NewService(scores)

	result, err := service.RecordBoard(context.Background(), []ports.ScoreUpdate{{UserID: "west", Points: -100}})
	if err != nil {
		t.Fatalf("RecordBoard returned error: %v", err)
	}
	if result.Recorded != 0 || len(scores.updates) != 0 {
		t.Fatalf("unexpected write: %+v", scores.updates)
	}
}

func TestRecordBoard_PortFailureReturnsError(t *testing.T) {
	service := NewService(&fakeScorePort{err: errors.New("leaderboard down")})

	if _, err := service.RecordBoard(context.Background(), []ports.ScoreUpdate{{UserID: "north", Points: 90}}); err == nil {
		t.Fatal("Expected error when the leaderboard write fails")
	}
}

func TestRecordBoard_Unconfigured(t *testing.T) {
	if _, err := NewService(nil).RecordBoard(context.Background(), nil); err == nil {
		t.Fatal("Expected error for missing score port")
	}
}
