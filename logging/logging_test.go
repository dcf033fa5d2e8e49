package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/angas/junegloom/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	entries []database.LogEntryRow
}

func (m *memStore) SaveLogEntry(_ context.Context, e database.LogEntryRow) error {
	m.entries = append(m.entries, e)
	return nil
}

func TestLevelFromString(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.Equal(t, slog.LevelInfo, LevelFromString(nil))
	assert.Equal(t, slog.LevelDebug, LevelFromString(str("debug")))
	assert.Equal(t, slog.LevelWarn, LevelFromString(str("WARN")))
	assert.Equal(t, slog.LevelError, LevelFromString(str("Error")))
	assert.Equal(t, slog.LevelInfo, LevelFromString(str("verbose")))
}

func TestSQLiteHandlerJSON(t *testing.T) {
	store := &memStore{}
	logger := slog.New(NewSQLiteHandler(store, slog.LevelInfo, AttrFormatJSON)).With("module", "task")

	logger.Debug("ignored")
	logger.Info("dataset built", slog.Int("cities", 3))

	require.Len(t, store.entries, 1)
	e := store.entries[0]
	assert.Equal(t, "dataset built", e.Message)
	assert.Equal(t, int(slog.LevelInfo), e.Level)
	assert.False(t, e.Timestamp.IsZero())
	assert.JSONEq(t, `[{"module":"task"},{"cities":"3"}]`, e.Attrs)
}

func TestSQLiteHandlerText(t *testing.T) {
	store := &memStore{}
	logger := slog.New(NewSQLiteHandler(store, slog.LevelDebug, AttrFormatText))

	logger.Warn("odd value", slog.String("expr", "a=b;c"))
	logger.Info("plain")

	require.Len(t, store.entries, 2)
	assert.Equal(t, `expr=a\=b\;c`, store.entries[0].Attrs)
	assert.Empty(t, store.entries[1].Attrs)
}

func TestMultiHandler(t *testing.T) {
	var console bytes.Buffer
	store := &memStore{}
	h := NewMultiHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelDebug}),
		NewSQLiteHandler(store, slog.LevelWarn, AttrFormatJSON))
	logger := slog.New(h).With("handler", "words")

	logger.Debug("debug only to console")
	logger.Error("to both")

	assert.Contains(t, console.String(), "debug only to console")
	assert.Contains(t, console.String(), "handler=words")
	require.Len(t, store.entries, 1)
	assert.Equal(t, "to both", store.entries[0].Message)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	quiet := NewMultiHandler(NewSQLiteHandler(store, slog.LevelError, AttrFormatJSON))
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelInfo))
}
