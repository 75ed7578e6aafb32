// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func entry(id int, published time.Time, comment string) types.FeedEntry {
	e := types.FeedEntry{
		ID:        fmt.Sprintf("http://arxiv.org/abs/2507.%05dv1", id),
		Title:     fmt.Sprintf("Paper %d", id),
		Authors:   []string{"Wei Wang"},
		Summary:   "An abstract.",
		Link:      fmt.Sprintf("http://arxiv.org/abs/2507.%05dv1", id),
		Published: ptrTime(published),
	}
	if comment != "" {
		e.Comment = ptrString(comment)
	}
	return e
}

func testPipeline() *Pipeline {
	return &Pipeline{Scorer: testScorer(), MaxShown: 10}
}

func TestProcess(t *testing.T) {
	target := day(2025, 7, 14)
	on := time.Date(2025, 7, 14, 15, 0, 0, 0, time.UTC)
	off := time.Date(2025, 7, 13, 15, 0, 0, 0, time.UTC)

	entries := []types.FeedEntry{
		entry(1, on, ""),
		entry(2, on, "Accepted to ACL"),
		entry(3, off, "Accepted"),
		entry(2, on, "duplicate of 2"),
		{Title: "no timestamp"},
		entry(4, on, "github"),
	}

	res := testPipeline().Process(entries, target)
	assert.Equal(t, 6, res.Fetched)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 1, res.OutOfWindow)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, "2025-07-14", res.DateLabel())

	require.Len(t, res.Ranked, 3)
	assert.Equal(t, "Paper 2", res.Ranked[0].Title)
	assert.Equal(t, 5, res.Ranked[0].Score)
	assert.Equal(t, "Paper 4", res.Ranked[1].Title)
	assert.Equal(t, "Paper 1", res.Ranked[2].Title)
}

func TestProcessTruncationKeepsTotal(t *testing.T) {
	on := time.Date(2025, 7, 14, 15, 0, 0, 0, time.UTC)
	var entries []types.FeedEntry
	for i := 0; i < 37; i++ {
		entries = append(entries, entry(i, on, ""))
	}

	res := testPipeline().Process(entries, day(2025, 7, 14))
	assert.Equal(t, 37, res.Total)
	assert.Len(t, res.Ranked, 10)
	// All scores tie, so feed order survives.
	assert.Equal(t, "Paper 0", res.Ranked[0].Title)
	assert.Equal(t, "Paper 9", res.Ranked[9].Title)
}

func TestProcessIdempotent(t *testing.T) {
	on := time.Date(2025, 7, 14, 15, 0, 0, 0, time.UTC)
	entries := []types.FeedEntry{
		entry(1, on, "github"), entry(2, on, "accepted"), entry(3, on, ""),
		entry(4, on, "github"), entry(5, on, "ICLR"),
	}
	p := testPipeline()

	first := p.Process(entries, day(2025, 7, 14))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, p.Process(entries, day(2025, 7, 14)))
	}
}

func TestProcessEmpty(t *testing.T) {
	res := testPipeline().Process(nil, day(2025, 7, 14))
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Ranked)
}

func TestSnapshotRoundTrip(t *testing.T) {
	on := time.Date(2025, 7, 14, 15, 0, 0, 0, time.UTC)
	res := testPipeline().Process([]types.FeedEntry{
		entry(1, on, "Accepted to ICLR"), entry(2, on, ""),
	}, day(2025, 7, 14))

	path := filepath.Join(t.TempDir(), "digest.yaml")
	require.NoError(t, WriteSnapshot(path, res, time.Date(2025, 7, 15, 6, 0, 0, 0, time.UTC)))

	snap, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-14", snap.Date)

	got, err := snap.Result()
	require.NoError(t, err)
	assert.Equal(t, res.Total, got.Total)
	assert.True(t, res.TargetDate.Equal(got.TargetDate))
	require.Len(t, got.Ranked, 2)
	assert.Equal(t, res.Ranked[0].Title, got.Ranked[0].Title)
	assert.Equal(t, res.Ranked[0].Score, got.Ranked[0].Score)
	assert.Equal(t, res.Ranked[0].Signals, got.Ranked[0].Signals)
	assert.True(t, res.Ranked[0].PublishDate.Equal(got.Ranked[0].PublishDate))
}

func TestReadSnapshotErrors(t *testing.T) {
	_, err := ReadSnapshot(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	snap := &Snapshot{Date: "yesterday"}
	_, err = snap.Result()
	assert.Error(t, err)
}
