// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2025, 7, 15, 6, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := Run{
			ID:         fmt.Sprintf("run-%d", i),
			TargetDate: fmt.Sprintf("2025-07-%02d", 12+i),
			StartedAt:  base.AddDate(0, 0, i),
			Fetched:    100,
			Total:      10 + i,
			Shown:      10,
			Delivered:  i != 1,
			StatusCode: 200,
			Summary:    "delivered 10 paper(s)",
		}
		require.NoError(t, s.Record(ctx, run, nil))
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.False(t, runs[1].Delivered)
	assert.Equal(t, 11, runs[1].Total)
	assert.True(t, runs[0].StartedAt.Equal(base.AddDate(0, 0, 2)))

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordPapers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	papers := []types.ScoredRecord{
		{PaperRecord: types.PaperRecord{ArxivID: "2507.00002", Title: "Best", Link: "http://x/2"}, Score: 5},
		{PaperRecord: types.PaperRecord{ArxivID: "2507.00001", Title: "Next", Link: "http://x/1"}, Score: 2},
	}
	require.NoError(t, s.Record(ctx, Run{ID: "r1", TargetDate: "2025-07-14", StartedAt: time.Now()}, papers))

	got, err := s.Papers(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "Best", got[0].Title)
	assert.Equal(t, 5, got[0].Score)
	assert.Equal(t, "2507.00001", got[1].ArxivID)

	none, err := s.Papers(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordDuplicateRunFails(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run := Run{ID: "dup", TargetDate: "2025-07-14", StartedAt: time.Now()}

	require.NoError(t, s.Record(ctx, run, nil))
	assert.Error(t, s.Record(ctx, run, nil))
}
