// Package store persists chat history and calculator records as local
// JSON snapshots. Loads are tolerant: corrupt or missing data reads as
// empty state, never as an error the UI has to handle.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
)

const (
	historyFile = "history.json"
	calcFile    = "calc.json"
	userIDFile  = "user_id"

	// maxCalcRecords bounds the calculator ring buffer.
	maxCalcRecords = 10
)

// Store is a file-backed snapshot store rooted at a data directory.
type Store struct {
	dir string
	log *slog.Logger

	mu sync.Mutex
}

// New creates the data directory if needed and returns a store.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, log: logger}, nil
}

// SaveHistory overwrites the full history snapshot. No merge: the
// in-memory ordered sequence is the source of truth.
func (s *Store) SaveHistory(history []models.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(historyFile, history)
}

// LoadHistory returns the persisted exchanges in order. Absence or parse
// failure yields an empty history.
func (s *Store) LoadHistory() []models.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []models.Exchange
	if !s.readJSON(historyFile, &history) {
		return nil
	}
	return history
}

// Clear erases the history snapshot. Calculator records are untouched.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, historyFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// SaveCalc prepends a calculator record, keeping the newest
// maxCalcRecords entries.
func (s *Store) SaveCalc(rec models.CalcRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.CalcRecord
	if !s.readJSON(calcFile, &records) {
		records = nil
	}

	records = append([]models.CalcRecord{rec}, records...)
	if len(records) > maxCalcRecords {
		records = records[:maxCalcRecords]
	}
	return s.writeJSON(calcFile, records)
}

// LoadCalc returns stored calculator records, newest first.
func (s *Store) LoadCalc() []models.CalcRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.CalcRecord
	if !s.readJSON(calcFile, &records) {
		return nil
	}
	return records
}

// ClearCalc erases the calculator records.
func (s *Store) ClearCalc() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, calcFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear calc records: %w", err)
	}
	return nil
}

// UserID returns the stable per-installation identifier, creating and
// persisting one on first use.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, userIDFile)
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		s.log.Warn("failed to persist user id", "error", err)
	}
	return id
}

// writeJSON writes a snapshot via temp file and rename so readers never
// observe a half-written file.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// readJSON reports whether the named snapshot was read and decoded.
// Corrupt files are logged and treated as absent.
func (s *Store) readJSON(name string, v any) bool {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("corrupt snapshot, starting empty", "file", name, "error", err)
		return false
	}
	return true
}
