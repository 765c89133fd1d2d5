package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gofiber/fiber/v2/log"
)

// Storage key prefixes
const (
	prefixGame  = "game:"
	prefixStats = "stats:"
)

var ErrNotFound = errors.New("record not found")

// GameRecord is the archived form of a finished game
type GameRecord struct {
	ID       string    `json:"id"`
	White    string    `json:"white"`
	Black    string    `json:"black"`
	Resolve  string    `json:"resolve"`
	Winner   string    `json:"winner,omitempty"` // "white", "black" or empty for a draw
	Moves    []string  `json:"moves"`
	FEN      string    `json:"fen"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// PlayerStats stores per-player results
type PlayerStats struct {
	GamesPlayed int `json:"games_played"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Draws       int `json:"draws"`
}

// WinRate returns the win rate as a percentage (0-100)
func (s PlayerStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for the game archive
type Storage struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores rec under its ID, replacing any earlier record
func (s *Storage) SaveGame(rec GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixGame+rec.ID), data)
	})
}

// LoadGame returns the archived game with the given ID
func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixGame + id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// LoadStats loads a player's statistics, zero stats if none were recorded
func (s *Storage) LoadStats(playerID string) (PlayerStats, error) {
	var stats PlayerStats
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixStats + playerID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	return stats, err
}

// RecordResult archives rec and updates both players' statistics in one transaction
func (s *Storage) RecordResult(rec GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(prefixGame+rec.ID), data); err != nil {
			return err
		}
		for _, side := range []struct{ player, color string }{
			{rec.White, "white"},
			{rec.Black, "black"},
		} {
			if side.player == "" {
				continue
			}
			if err := updateStats(txn, side.player, func(st *PlayerStats) {
				st.GamesPlayed++
				switch rec.Winner {
				case "":
					st.Draws++
				case side.color:
					st.Wins++
				default:
					st.Losses++
				}
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateStats(txn *badger.Txn, playerID string, fn func(*PlayerStats)) error {
	key := []byte(prefixStats + playerID)
	var stats PlayerStats
	item, err := txn.Get(key)
	switch {
	case err == badger.ErrKeyNotFound:
	case err != nil:
		return err
	default:
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		}); err != nil {
			return err
		}
	}
	fn(&stats)
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// badgerLogger routes badger's internal logging through fiber's logger
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	log.Errorf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	log.Warnf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	log.Debugf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	log.Tracef("badger: "+format, args...)
}
