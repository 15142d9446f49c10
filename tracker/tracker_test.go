package tracker

import (
	"image/color"
	"testing"

	"github.com/nvr-ai/go-regions/regions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := New(DefaultConfig())
	require.NoError(t, err)
	return tr
}

// seeded returns a tracker whose snapshot holds one track at (10, 10).
func seeded(t *testing.T) (*Tracker, Identity) {
	t.Helper()
	tr := newTracker(t)
	c, matched := tr.Resolve(regions.Point{X: 10, Y: 10})
	require.False(t, matched)
	tr.Update([]Track{{Centroid: regions.Point{X: 10, Y: 10}, Identity: c}})
	return tr, c
}

func TestResolveContinuity(t *testing.T) {
	tr, c := seeded(t)

	got, matched := tr.Resolve(regions.Point{X: 10, Y: 12})
	assert.True(t, matched)
	assert.Equal(t, c, got)
}

func TestResolveDiscontinuity(t *testing.T) {
	tr, c := seeded(t)

	got, matched := tr.Resolve(regions.Point{X: 100, Y: 100})
	assert.False(t, matched)
	assert.NotEqual(t, c, got)
	assert.NotEqual(t, c.ID, got.ID)
}

func TestResolveDistanceBoundIsExclusive(t *testing.T) {
	tr, c := seeded(t)

	got, matched := tr.Resolve(regions.Point{X: 60, Y: 10})
	assert.False(t, matched, "distance of exactly 50 is not a match")
	assert.NotEqual(t, c, got)

	got, matched = tr.Resolve(regions.Point{X: 59.9, Y: 10})
	assert.True(t, matched)
	assert.Equal(t, c, got)
}

func TestResolveEmptyStateMints(t *testing.T) {
	tr := newTracker(t)
	assert.True(t, tr.Empty())

	a, matched := tr.Resolve(regions.Point{X: 1, Y: 1})
	assert.False(t, matched)
	b, _ := tr.Resolve(regions.Point{X: 1, Y: 1})
	assert.NotEqual(t, a, b, "empty state never matches, even the same position")
	assert.Equal(t, uint8(255), a.Color.A)
}

func TestResolvePicksNearest(t *testing.T) {
	tr := newTracker(t)
	near, _ := tr.Resolve(regions.Point{})
	far, _ := tr.Resolve(regions.Point{})
	tr.Update([]Track{
		{Centroid: regions.Point{X: 30, Y: 0}, Identity: far},
		{Centroid: regions.Point{X: 5, Y: 0}, Identity: near},
	})

	got, matched := tr.Resolve(regions.Point{X: 0, Y: 0})
	assert.True(t, matched)
	assert.Equal(t, near, got)
}

func TestResolveIsNotExclusive(t *testing.T) {
	tr, c := seeded(t)

	first, _ := tr.Resolve(regions.Point{X: 8, Y: 10})
	second, _ := tr.Resolve(regions.Point{X: 12, Y: 10})
	assert.Equal(t, c, first)
	assert.Equal(t, c, second)
}

func TestUpdateReplacesSnapshot(t *testing.T) {
	tr, c := seeded(t)
	require.Len(t, tr.Snapshot(), 1)

	tr.Update(nil)
	assert.True(t, tr.Empty())

	got, matched := tr.Resolve(regions.Point{X: 10, Y: 10})
	assert.False(t, matched, "dropped tracks cannot be matched")
	assert.NotEqual(t, c, got)
}

func TestSnapshotIsACopy(t *testing.T) {
	tr, c := seeded(t)
	snap := tr.Snapshot()
	snap[0].Centroid = regions.Point{X: 500, Y: 500}

	got, matched := tr.Resolve(regions.Point{X: 10, Y: 11})
	assert.True(t, matched)
	assert.Equal(t, c, got)
}

func TestMintingIsReproducible(t *testing.T) {
	a := newTracker(t)
	b := newTracker(t)

	for i := 0; i < 5; i++ {
		ida, _ := a.Resolve(regions.Point{})
		idb, _ := b.Resolve(regions.Point{})
		assert.Equal(t, ida, idb)
	}

	cfg := DefaultConfig()
	cfg.Seed = 99
	other, err := New(cfg)
	require.NoError(t, err)
	ida, _ := newTracker(t).Resolve(regions.Point{})
	idc, _ := other.Resolve(regions.Point{})
	assert.NotEqual(t, ida.ID, idc.ID)
}

type fixedMatcher struct{ index int }

func (m fixedMatcher) Match(regions.Point, []Track) (int, bool) { return m.index, true }

func TestCustomMatcher(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Matcher = fixedMatcher{index: 0}
	tr, err := New(cfg)
	require.NoError(t, err)

	id := Identity{Color: color.RGBA{R: 1, G: 2, B: 3, A: 255}}
	tr.Update([]Track{{Centroid: regions.Point{}, Identity: id}})

	got, matched := tr.Resolve(regions.Point{X: 1000, Y: 1000})
	assert.True(t, matched)
	assert.Equal(t, id, got)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCentroidDistance = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestIdentityHex(t *testing.T) {
	id := Identity{}
	id.Color.R, id.Color.G, id.Color.B, id.Color.A = 255, 0, 128, 255
	assert.Equal(t, "#ff0080", id.Hex())
	assert.Contains(t, id.String(), "#ff0080")
}
