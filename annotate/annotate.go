// Package annotate chooses which regions of a frame are kept, resolves their
// identities and draws them onto a copy of the frame for verification.
package annotate

import (
	"fmt"
	"image"
	"math"

	"github.com/nvr-ai/go-regions/regions"
	"github.com/nvr-ai/go-regions/tracker"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gocv.io/x/gocv"
)

// Annotation is a kept region together with its resolved identity.
type Annotation struct {
	Region   regions.Region
	Identity tracker.Identity
	// Matched reports whether the identity was carried over from the previous frame.
	Matched bool
}

// Track reduces the annotation to what the tracker retains.
func (a Annotation) Track() tracker.Track {
	return tracker.Track{Centroid: a.Region.Centroid, Identity: a.Identity}
}

// Style controls the drawing of annotations.
type Style struct {
	BoxThickness  int
	MarkerRadius  int
	AxisThickness int
	FontScale     float64
	TextThickness int
	LineSpacing   int
}

// DefaultStyle returns 2 px boxes and axes, a radius 4 centroid marker and
// 0.5 scale text.
func DefaultStyle() Style {
	return Style{
		BoxThickness:  2,
		MarkerRadius:  4,
		AxisThickness: 2,
		FontScale:     0.5,
		TextThickness: 1,
		LineSpacing:   15,
	}
}

// Select returns, in order, the regions that are kept for a frame: regions
// touching the image boundary are skipped and at most maxRegions are accepted.
// The input is expected in area-descending order, so the largest interior
// regions win.
func Select(rs []regions.Region, maxRegions int) []regions.Region {
	interior := lo.Filter(rs, func(r regions.Region, _ int) bool {
		return !r.TouchesBoundary
	})
	if len(interior) > maxRegions {
		interior = interior[:maxRegions]
	}
	return interior
}

// Annotator applies the selection policy and draws the kept regions.
type Annotator struct {
	maxRegions int
	style      Style
}

// New creates an Annotator accepting at most maxRegions regions per frame.
func New(maxRegions int, style Style) (*Annotator, error) {
	if maxRegions < 1 {
		return nil, errors.Errorf("max regions must be positive, got %d", maxRegions)
	}
	return &Annotator{maxRegions: maxRegions, style: style}, nil
}

// Annotate draws the kept regions of rs onto a copy of original.
//
// Every kept region's identity is resolved against tr, then tr's snapshot is
// replaced with exactly the kept regions. Skipped regions are never drawn and
// do not reach the snapshot.
//
// Arguments:
//   - original: The frame the regions were extracted from; left untouched.
//   - rs: Regions in area-descending order.
//   - tr: The sequence's tracker.
//
// Returns:
//   - gocv.Mat: The annotated BGR copy; the caller must Close it.
//   - []Annotation: The kept regions with identities, in selection order.
//   - error: An error if original is empty or drawing fails. The tracker is
//     not updated in that case.
func (a *Annotator) Annotate(original gocv.Mat, rs []regions.Region, tr *tracker.Tracker) (gocv.Mat, []Annotation, error) {
	if original.Empty() {
		return gocv.NewMat(), nil, errors.New("original frame is empty")
	}

	out := gocv.NewMat()
	var err error
	if original.Channels() == 1 {
		err = gocv.CvtColor(original, &out, gocv.ColorGrayToBGR)
	} else {
		err = original.CopyTo(&out)
	}
	if err != nil {
		return out, nil, errors.Wrap(err, "failed to copy original frame")
	}

	kept := Select(rs, a.maxRegions)
	annotations := make([]Annotation, 0, len(kept))
	for _, r := range kept {
		id, matched := tr.Resolve(r.Centroid)
		ann := Annotation{Region: r, Identity: id, Matched: matched}
		if err := Draw(&out, ann, a.style); err != nil {
			return out, nil, err
		}
		annotations = append(annotations, ann)
	}

	tr.Update(lo.Map(annotations, func(ann Annotation, _ int) tracker.Track {
		return ann.Track()
	}))
	return out, annotations, nil
}

// Draw renders the bounding box, centroid marker, orientation axis and summary
// text of ann in its identity color.
func Draw(img *gocv.Mat, ann Annotation, style Style) error {
	r := ann.Region
	c := ann.Identity.Color
	box := r.BoundingBox

	if err := gocv.Rectangle(img, box, c, style.BoxThickness); err != nil {
		return errors.Wrap(err, "failed to draw bounding box")
	}
	centroid := image.Pt(int(math.Round(r.Centroid.X)), int(math.Round(r.Centroid.Y)))
	if err := gocv.Circle(img, centroid, style.MarkerRadius, c, -1); err != nil {
		return errors.Wrap(err, "failed to draw centroid")
	}

	start, end := Axis(r)
	if err := gocv.Line(img, start, end, c, style.AxisThickness); err != nil {
		return errors.Wrap(err, "failed to draw axis")
	}

	lines := []string{
		fmt.Sprintf("Area: %d", r.Area),
		fmt.Sprintf("AR: %.2f", r.AspectRatio),
		fmt.Sprintf("Filled: %d%%", int(r.PercentFilled*100)),
	}
	for i, text := range lines {
		origin := image.Pt(box.Min.X, box.Min.Y-5-i*style.LineSpacing)
		if err := gocv.PutText(img, text, origin, gocv.FontHersheySimplex, style.FontScale, c, style.TextThickness); err != nil {
			return errors.Wrapf(err, "failed to draw %q", text)
		}
	}
	return nil
}

// Axis returns the endpoints of the orientation segment: centred on the
// centroid, half the smaller bounding box side long in each direction.
func Axis(r regions.Region) (image.Point, image.Point) {
	length := float64(min(r.BoundingBox.Dx(), r.BoundingBox.Dy())) / 2
	dx := length * math.Cos(r.Orientation)
	dy := length * math.Sin(r.Orientation)
	start := image.Pt(int(math.Round(r.Centroid.X-dx)), int(math.Round(r.Centroid.Y-dy)))
	end := image.Pt(int(math.Round(r.Centroid.X+dx)), int(math.Round(r.Centroid.Y+dy)))
	return start, end
}
