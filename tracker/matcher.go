package tracker

import (
	"math"

	"github.com/nvr-ai/go-regions/regions"
)

// Matcher picks the previous track a current region continues, if any.
//
// Matching is evaluated per region and independently: implementations must not
// assume that a previous track is claimed once it has been matched. A caller
// needing a different assignment policy supplies its own Matcher through Config.
type Matcher interface {
	Match(centroid regions.Point, previous []Track) (index int, ok bool)
}

// NearestMatcher selects the previous track with the closest centroid, provided
// that distance is strictly below MaxDistance. Ties keep the earliest track.
type NearestMatcher struct {
	MaxDistance float64
}

// Match implements Matcher.
func (m NearestMatcher) Match(centroid regions.Point, previous []Track) (int, bool) {
	best, bestDistance := -1, math.MaxFloat64
	for i, p := range previous {
		d := centroid.DistanceTo(p.Centroid)
		if d < bestDistance && d < m.MaxDistance {
			best, bestDistance = i, d
		}
	}
	return best, best >= 0
}
