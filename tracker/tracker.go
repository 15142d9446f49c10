// Package tracker keeps region identities stable across consecutive frames by
// nearest-centroid matching against the previous frame's kept regions.
package tracker

import (
	"math/rand/v2"

	"github.com/nvr-ai/go-regions/regions"
	"github.com/pkg/errors"
)

const (
	// DefaultSeed seeds the identity generator when none is configured.
	DefaultSeed uint64 = 12345
	// DefaultMaxCentroidDistance is the largest centroid displacement, exclusive,
	// still treated as the same object.
	DefaultMaxCentroidDistance = 50.0
)

// Config contains the tracker parameters.
type Config struct {
	// Seed makes minted identities reproducible.
	Seed uint64
	// MaxCentroidDistance bounds matching; see Matcher.
	MaxCentroidDistance float64
	// Matcher overrides the default NearestMatcher when set.
	Matcher Matcher
}

// DefaultConfig returns seed 12345 and a 50 pixel matching radius.
func DefaultConfig() Config {
	return Config{
		Seed:                DefaultSeed,
		MaxCentroidDistance: DefaultMaxCentroidDistance,
	}
}

// Validate checks the matching radius.
func (c Config) Validate() error {
	if c.MaxCentroidDistance <= 0 {
		return errors.Errorf("max centroid distance must be positive, got %v", c.MaxCentroidDistance)
	}
	return nil
}

// Track is the part of a kept region that survives into the next frame.
type Track struct {
	Centroid regions.Point
	Identity Identity
}

// Tracker resolves identities for one image sequence.
//
// It is either empty (no frame kept yet) or populated with the snapshot of the
// last Update. A Tracker is owned by a single processing loop and is not safe
// for concurrent use; independent sequences use independent Trackers.
type Tracker struct {
	matcher  Matcher
	rng      *rand.Rand
	previous []Track
}

// New creates an empty tracker.
func New(config Config) (*Tracker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	matcher := config.Matcher
	if matcher == nil {
		matcher = NearestMatcher{MaxDistance: config.MaxCentroidDistance}
	}
	return &Tracker{
		matcher: matcher,
		rng:     newRand(config.Seed),
	}, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Resolve returns the identity for a region centred at centroid: the identity of
// the matched previous track, or a freshly minted one. matched reports which.
//
// Resolve never changes the snapshot, so several current regions may resolve to
// the same previous track.
func (t *Tracker) Resolve(centroid regions.Point) (id Identity, matched bool) {
	if i, ok := t.matcher.Match(centroid, t.previous); ok {
		return t.previous[i].Identity, true
	}
	return mint(t.rng), false
}

// Update replaces the snapshot with exactly kept.
func (t *Tracker) Update(kept []Track) {
	t.previous = append(make([]Track, 0, len(kept)), kept...)
}

// Snapshot returns a copy of the tracks kept from the last frame.
func (t *Tracker) Snapshot() []Track {
	return append([]Track(nil), t.previous...)
}

// Empty reports whether no frame has been kept yet, or the last frame kept nothing.
func (t *Tracker) Empty() bool {
	return len(t.previous) == 0
}
