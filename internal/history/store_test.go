// Copyright Jordan Morrow, 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPenaltySetWindowsRecentDates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, day("2026-08-24"), []string{"a/old"}))
	require.NoError(t, s.Record(ctx, day("2026-08-25"), []string{"a/mid"}))
	require.NoError(t, s.Record(ctx, day("2026-08-26"), []string{"a/new", "b/new"}))

	set, err := s.PenaltySet(ctx, day("2026-08-27"), 2)
	require.NoError(t, err)

	assert.True(t, set["a/mid"])
	assert.True(t, set["a/new"])
	assert.True(t, set["b/new"])
	assert.False(t, set["a/old"], "outside the 2-edition window")
}

func TestPenaltySetExcludesTodayAndFuture(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, day("2026-08-26"), []string{"a/yesterday"}))
	require.NoError(t, s.Record(ctx, day("2026-08-27"), []string{"a/today"}))

	set, err := s.PenaltySet(ctx, day("2026-08-27"), 3)
	require.NoError(t, err)

	assert.True(t, set["a/yesterday"])
	assert.False(t, set["a/today"], "a rerun must not penalize its own date")
}

func TestPenaltySetEmptyStore(t *testing.T) {
	s := testStore(t)
	set, err := s.PenaltySet(context.Background(), day("2026-08-27"), 3)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestRecordRerunReplacesDate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, day("2026-08-26"), []string{"a/first", "a/second"}))
	require.NoError(t, s.Record(ctx, day("2026-08-26"), []string{"a/second", "a/third"}))

	set, err := s.PenaltySet(ctx, day("2026-08-27"), 1)
	require.NoError(t, err)

	assert.False(t, set["a/first"], "replaced by the rerun")
	assert.True(t, set["a/second"])
	assert.True(t, set["a/third"])
}

func TestDatesNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, day("2026-08-24"), []string{"a/x"}))
	require.NoError(t, s.Record(ctx, day("2026-08-26"), []string{"a/y"}))

	dates, err := s.Dates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-26", "2026-08-24"}, dates)
}
