package store_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/store"
)

func newTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.New(dir, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return s, dir
}

func TestHistoryRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	history := []models.Exchange{
		{Text: "Hi", IsUser: true, Timestamp: time.Now()},
		{Text: "Hello!", Source: models.SourceKnowledgeBase, Timestamp: time.Now()},
	}
	require.NoError(t, s.SaveHistory(history))

	loaded := s.LoadHistory()
	require.Len(t, loaded, 2)
	assert.Equal(t, "Hi", loaded[0].Text)
	assert.True(t, loaded[0].IsUser)
	assert.Equal(t, models.SourceNone, loaded[0].Source)
	assert.Equal(t, "Hello!", loaded[1].Text)
	assert.False(t, loaded[1].IsUser)
	assert.Equal(t, models.SourceKnowledgeBase, loaded[1].Source)
}

func TestSaveHistoryOverwrites(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.SaveHistory([]models.Exchange{{Text: "old", IsUser: true}}))
	require.NoError(t, s.SaveHistory([]models.Exchange{{Text: "new", IsUser: true}}))

	loaded := s.LoadHistory()
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Text)
}

func TestLoadHistoryMissing(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.LoadHistory())
}

func TestLoadHistoryCorrupt(t *testing.T) {
	s, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0o644))
	assert.Empty(t, s.LoadHistory(), "corrupt snapshot should read as empty")
}

func TestClearRemovesHistoryOnly(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.SaveHistory([]models.Exchange{{Text: "hi", IsUser: true}}))
	require.NoError(t, s.SaveCalc(models.CalcRecord{Guests: 4, Hours: 2, Activity: "vr", Total: 2400}))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.LoadHistory())
	assert.Len(t, s.LoadCalc(), 1, "clearing history must not touch calc records")

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}

func TestCalcRingBuffer(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 1; i <= 12; i++ {
		require.NoError(t, s.SaveCalc(models.CalcRecord{
			Guests:   i,
			Hours:    1,
			Activity: "vr",
			Total:    float64(i) * 300,
		}))
	}

	records := s.LoadCalc()
	require.Len(t, records, 10, "ring buffer caps at 10")
	assert.Equal(t, 12, records[0].Guests, "newest first")
	assert.Equal(t, 3, records[9].Guests, "oldest surviving record")
}

func TestCalcCorruptStartsFresh(t *testing.T) {
	s, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "calc.json"), []byte("[[["), 0o644))
	require.NoError(t, s.SaveCalc(models.CalcRecord{Guests: 1, Hours: 1, Activity: "vr", Total: 300}))

	records := s.LoadCalc()
	require.Len(t, records, 1)
}

func TestUserIDStable(t *testing.T) {
	s, dir := newTestStore(t)

	first := s.UserID()
	require.NotEmpty(t, first)
	assert.Equal(t, first, s.UserID())

	// A fresh store over the same dir sees the same id.
	again, err := store.New(dir, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, first, again.UserID())
}

func TestSnapshotIsValidJSON(t *testing.T) {
	s, dir := newTestStore(t)

	require.NoError(t, s.SaveHistory([]models.Exchange{{Text: "hi", IsUser: true, Timestamp: time.Now()}}))

	data, err := os.ReadFile(filepath.Join(dir, "history.json"))
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "hi", fmt.Sprint(raw[0]["text"]))
}
