package storage

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("EmptyStats", func(t *testing.T) {
		s := openTestStorage(t)
		stats, err := s.LoadStats()
		if err != nil {
			t.Fatalf("LoadStats: %v", err)
		}
		if stats.GamesPlayed != 0 || stats.AveragePlies() != 0 {
			t.Errorf("expected empty stats, got %+v", stats)
		}
		results, err := s.RecentResults(10)
		if err != nil {
			t.Fatalf("RecentResults: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("RecordResult", func(t *testing.T) {
		s := openTestStorage(t)
		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		games := []struct {
			result   GameResult
			computer bool
		}{
			{GameResult{GameID: "a", Mode: "human", Winner: "black", Loser: "white", Reason: "checkmate", Plies: 4, FinishedAt: base}, false},
			{GameResult{GameID: "b", Mode: "greedy", Winner: "white", Loser: "black", Reason: "checkmate", Plies: 30, FinishedAt: base.Add(time.Minute)}, true},
			{GameResult{GameID: "c", Mode: "random", Winner: "black", Loser: "white", Reason: "checkmate", Plies: 20, FinishedAt: base.Add(2 * time.Minute)}, true},
		}
		for _, g := range games {
			if err := s.RecordResult(g.result, g.computer, "black"); err != nil {
				t.Fatalf("RecordResult(%s): %v", g.result.GameID, err)
			}
		}

		stats, err := s.LoadStats()
		if err != nil {
			t.Fatalf("LoadStats: %v", err)
		}
		want := &GameStats{
			GamesPlayed:    3,
			WhiteWins:      1,
			BlackWins:      2,
			WinsByMode:     map[string]int{"human": 1, "greedy": 1, "random": 1},
			ComputerWins:   1,
			ComputerLosses: 1,
			TotalPlies:     54,
		}
		if diff := cmp.Diff(want, stats); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
		if got := stats.AveragePlies(); got != 18 {
			t.Errorf("AveragePlies() = %v, want 18", got)
		}

		results, err := s.RecentResults(2)
		if err != nil {
			t.Fatalf("RecentResults: %v", err)
		}
		var ids []string
		for _, r := range results {
			ids = append(ids, r.GameID)
		}
		if diff := cmp.Diff([]string{"c", "b"}, ids); diff != "" {
			t.Errorf("recent results (-want +got):\n%s", diff)
		}
	})

	t.Run("ZeroLimit", func(t *testing.T) {
		s := openTestStorage(t)
		results, err := s.RecentResults(0)
		if err != nil || len(results) != 0 {
			t.Errorf("RecentResults(0) = %v, %v", results, err)
		}
	})
}
