// Package storage keeps a ledger of finished games and aggregate statistics
// in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	keyStats     = "stats"
	resultPrefix = "result/"
)

// GameResult is one finished game.
type GameResult struct {
	GameID     string    `json:"gameId"`
	Epoch      uint64    `json:"epoch"`
	Mode       string    `json:"mode"`
	Winner     string    `json:"winner"`
	Loser      string    `json:"loser"`
	Reason     string    `json:"reason"`
	WhiteName  string    `json:"whiteName"`
	BlackName  string    `json:"blackName"`
	Plies      int       `json:"plies"`
	FinishedAt time.Time `json:"finishedAt"`
}

func (r GameResult) key() []byte {
	return []byte(fmt.Sprintf("%s%020d/%s/%d", resultPrefix, r.FinishedAt.UnixNano(), r.GameID, r.Epoch))
}

// GameStats aggregates every recorded result.
type GameStats struct {
	GamesPlayed    int            `json:"gamesPlayed"`
	WhiteWins      int            `json:"whiteWins"`
	BlackWins      int            `json:"blackWins"`
	WinsByMode     map[string]int `json:"winsByMode"`
	ComputerWins   int            `json:"computerWins"`
	ComputerLosses int            `json:"computerLosses"`
	TotalPlies     int            `json:"totalPlies"`
}

func NewGameStats() *GameStats {
	return &GameStats{WinsByMode: make(map[string]int)}
}

// AveragePlies returns the mean game length in half-moves.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordResult stores r and folds it into the statistics in one transaction.
func (s *Storage) RecordResult(r GameResult, computerMode bool, computerColor string) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.GamesPlayed++
		stats.TotalPlies += r.Plies
		switch r.Winner {
		case "white":
			stats.WhiteWins++
		case "black":
			stats.BlackWins++
		}
		stats.WinsByMode[r.Mode]++
		if computerMode {
			if r.Winner == computerColor {
				stats.ComputerWins++
			} else {
				stats.ComputerLosses++
			}
		}

		encoded, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(keyStats), encoded); err != nil {
			return err
		}
		return txn.Set(r.key(), data)
	})
}

func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := NewGameStats()
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.WinsByMode == nil {
		stats.WinsByMode = make(map[string]int)
	}
	return stats, err
}

// LoadStats returns empty stats if nothing was recorded yet.
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

// RecentResults returns up to limit results, newest first.
func (s *Storage) RecentResults(limit int) ([]GameResult, error) {
	results := []GameResult{}
	if limit <= 0 {
		return results, nil
	}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(resultPrefix)
		// Reverse iteration seeks to the last key <= the seek key.
		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(results) < limit; it.Next() {
			var r GameResult
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinishedAt.After(results[j].FinishedAt)
	})
	return results, nil
}
