// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/archive"
	"github.com/pdiddy/paper-digest/pkg/types"
)

func seededArchive(t *testing.T) *archive.Store {
	t.Helper()
	store, err := archive.Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	papers := []types.ScoredRecord{
		{PaperRecord: types.PaperRecord{ArxivID: "2507.10002", Title: "Agents That Plan", Link: "http://arxiv.org/abs/2507.10002v1"}, Score: 8},
	}
	require.NoError(t, store.Record(context.Background(), archive.Run{
		ID:         "run-1",
		TargetDate: "2025-07-14",
		StartedAt:  time.Date(2025, 7, 15, 6, 0, 0, 0, time.UTC),
		Fetched:    3,
		Total:      1,
		Shown:      1,
		Delivered:  true,
		StatusCode: 200,
		Summary:    "delivered 1 paper(s)",
	}, papers))
	return store
}

func TestPrintHistoryTable(t *testing.T) {
	store := seededArchive(t)

	var out bytes.Buffer
	require.NoError(t, printHistory(context.Background(), store, &out, 10, true, false))

	s := out.String()
	assert.Contains(t, s, "2025-07-14")
	assert.Contains(t, s, "2025-07-15 06:00:00")
	assert.Contains(t, s, "yes")
	assert.Contains(t, s, "Agents That Plan")
	assert.Contains(t, s, "1 run(s)")
}

func TestPrintHistoryJSON(t *testing.T) {
	store := seededArchive(t)

	var out bytes.Buffer
	require.NoError(t, printHistory(context.Background(), store, &out, 10, false, true))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "run-1", entries[0]["id"])
	assert.Equal(t, true, entries[0]["delivered"])
	assert.NotContains(t, entries[0], "papers", "papers omitted without --papers")
}

func TestPrintHistoryEmpty(t *testing.T) {
	store, err := archive.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	require.NoError(t, printHistory(context.Background(), store, &out, 0, false, false))
	assert.Equal(t, "No runs recorded.\n", out.String())
}
