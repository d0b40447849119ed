package chaos_test

import (
	"testing"

	"pixelcloak/chaos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStaysInOpenInterval(t *testing.T) {
	seq := chaos.NewSequencer(chaos.DeriveSeed("abc"), 10, 10)
	for range 10000 {
		x := seq.Next()
		require.Greater(t, x, 0.0)
		require.Less(t, x, 1.0)
	}
}

func TestNextIndexBounds(t *testing.T) {
	seq := chaos.NewSequencer(chaos.DeriveSeed("abc"), 10, 10)
	for range 10000 {
		i := seq.NextIndex(7)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, 7)
	}
}

func TestLocationsDeterministic(t *testing.T) {
	seed := chaos.DeriveSeed("abc")

	a, err := chaos.NewSequencer(seed, 64, 48).Locations(500)
	require.NoError(t, err)
	b, err := chaos.NewSequencer(seed, 64, 48).Locations(500)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestLocationsDistinctAndInBounds(t *testing.T) {
	seq := chaos.NewSequencer(chaos.DeriveSeed("k"), 8, 6)
	locs, err := seq.Locations(100)
	require.NoError(t, err)
	require.Len(t, locs, 100)

	seen := make(map[chaos.Location]struct{}, len(locs))
	for _, loc := range locs {
		_, dup := seen[loc]
		assert.False(t, dup, "duplicate location %+v", loc)
		seen[loc] = struct{}{}

		assert.GreaterOrEqual(t, loc.X, 0)
		assert.Less(t, loc.X, 8)
		assert.GreaterOrEqual(t, loc.Y, 0)
		assert.Less(t, loc.Y, 6)
		assert.GreaterOrEqual(t, loc.Channel, 0)
		assert.Less(t, loc.Channel, 3)
	}
}

// The decode path draws the header and the body separately on one
// sequencer; together they must match the encode path's single draw.
func TestSplitDrawMatchesSingleDraw(t *testing.T) {
	seed := chaos.DeriveSeed("abc")

	all, err := chaos.NewSequencer(seed, 16, 16).Locations(96)
	require.NoError(t, err)

	seq := chaos.NewSequencer(seed, 16, 16)
	head, err := seq.Locations(32)
	require.NoError(t, err)
	body, err := seq.Locations(64)
	require.NoError(t, err)

	assert.Equal(t, all, append(head, body...))
}

func TestUsedSetPersistsAcrossCalls(t *testing.T) {
	seq := chaos.NewSequencer(chaos.DeriveSeed("abc"), 16, 16)
	head, err := seq.Locations(32)
	require.NoError(t, err)
	body, err := seq.Locations(64)
	require.NoError(t, err)

	for _, loc := range body {
		assert.NotContains(t, head, loc)
	}
}

// Every (x, y, channel) triple must be reachable, otherwise images can
// never be filled to capacity.
func TestLocationsCoverEveryLocation(t *testing.T) {
	for _, dim := range []struct{ w, h int }{{4, 4}, {16, 16}} {
		total := dim.w * dim.h * 3
		seq := chaos.NewSequencer(chaos.DeriveSeed("abc"), dim.w, dim.h)

		locs, err := seq.Locations(total)
		require.NoError(t, err, "%dx%d", dim.w, dim.h)

		seen := make(map[chaos.Location]struct{}, total)
		for _, loc := range locs {
			seen[loc] = struct{}{}
		}
		assert.Len(t, seen, total, "%dx%d", dim.w, dim.h)
	}
}

func TestLocationsExhaustion(t *testing.T) {
	// 2x2 image: 12 addressable locations in total.
	seq := chaos.NewSequencer(chaos.DeriveSeed("abc"), 2, 2)
	locs, err := seq.Locations(12)
	require.NoError(t, err)
	assert.Len(t, locs, 12)

	_, err = seq.Locations(1)
	assert.ErrorIs(t, err, chaos.ErrExhausted)

	_, err = chaos.NewSequencer(chaos.DeriveSeed("abc"), 2, 2).Locations(13)
	assert.ErrorIs(t, err, chaos.ErrExhausted)
}
