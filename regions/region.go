// Package regions labels connected foreground components in a binary mask and
// describes each one's shape.
package regions

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Columns of the stats Mat filled by gocv.ConnectedComponentsWithStats.
const (
	statLeft = iota
	statTop
	statWidth
	statHeight
	statArea
)

// Point is a sub-pixel image coordinate.
type Point struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Region describes one connected foreground component of a frame.
type Region struct {
	// Centroid is the mean position of the component's pixels.
	Centroid Point
	// Area is the component's pixel count.
	Area int
	// BoundingBox encloses the component; Max is exclusive.
	BoundingBox image.Rectangle
	// AspectRatio is the bounding box width divided by its height.
	AspectRatio float64
	// TouchesBoundary reports whether the bounding box reaches any image edge.
	TouchesBoundary bool
	// PercentFilled is Area divided by the bounding box area, in (0, 1].
	PercentFilled float64
	// Orientation is the axis of least second moment in radians, in (-pi/2, pi/2].
	Orientation float64
}

func (r Region) String() string {
	return fmt.Sprintf("Region area=%d box=%v centroid=(%.1f, %.1f) ar=%.2f filled=%.2f angle=%.3f",
		r.Area, r.BoundingBox, r.Centroid.X, r.Centroid.Y, r.AspectRatio, r.PercentFilled, r.Orientation)
}

// Extract labels the 8-connected foreground components of binary and returns a
// Region for every component with at least minRegionSize pixels, sorted by area
// from largest to smallest. Components of equal area keep their label order.
//
// Arguments:
//   - binary: Single-channel 8-bit mask; any non-zero pixel is foreground.
//   - minRegionSize: Smallest area kept; must be positive.
//
// Returns:
//   - []Region: The surviving components; empty when there is no foreground.
//   - error: An error if the mask is empty, not 8-bit single-channel, or minRegionSize < 1.
func Extract(binary gocv.Mat, minRegionSize int) ([]Region, error) {
	if binary.Empty() {
		return nil, errors.New("binary mask is empty")
	}
	if binary.Type() != gocv.MatTypeCV8UC1 {
		return nil, errors.Errorf("binary mask must be 8-bit single-channel, got type %v", binary.Type())
	}
	if minRegionSize < 1 {
		return nil, errors.Errorf("minimum region size must be positive, got %d", minRegionSize)
	}

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	// Label 0 is the background.
	count := gocv.ConnectedComponentsWithStats(binary, &labels, &stats, &centroids)

	cols, rows := binary.Cols(), binary.Rows()
	// The label image is read once in Go instead of per pixel through cgo.
	pixels, err := labels.DataPtrInt32()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read component labels")
	}
	out := make([]Region, 0, max(count-1, 0))
	for label := 1; label < count; label++ {
		area := int(stats.GetIntAt(label, statArea))
		if area < minRegionSize {
			continue
		}

		x := int(stats.GetIntAt(label, statLeft))
		y := int(stats.GetIntAt(label, statTop))
		w := int(stats.GetIntAt(label, statWidth))
		h := int(stats.GetIntAt(label, statHeight))
		box := image.Rect(x, y, x+w, y+h)

		out = append(out, Region{
			Centroid:        Point{X: centroids.GetDoubleAt(label, 0), Y: centroids.GetDoubleAt(label, 1)},
			Area:            area,
			BoundingBox:     box,
			AspectRatio:     float64(w) / float64(h),
			TouchesBoundary: x <= 0 || y <= 0 || x+w >= cols || y+h >= rows,
			PercentFilled:   float64(area) / float64(w*h),
			Orientation:     momentsOf(pixels, cols, int32(label), box).Angle(),
		})
	}

	slices.SortStableFunc(out, func(a, b Region) int {
		return b.Area - a.Area
	})
	return out, nil
}
