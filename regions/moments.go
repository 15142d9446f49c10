package regions

import (
	"image"
	"math"
)

// CentralMoments holds the second-order central moments of a pixel set,
// normalized by its area.
type CentralMoments struct {
	Mu20, Mu02, Mu11 float64
}

// Angle returns the direction of least second moment, 0.5*atan2(2*mu11, mu20-mu02),
// folded into (-pi/2, pi/2]. A rotationally symmetric set yields 0.
func (m CentralMoments) Angle() float64 {
	angle := 0.5 * math.Atan2(2*m.Mu11, m.Mu20-m.Mu02)
	if angle <= -math.Pi/2 {
		angle += math.Pi
	}
	return angle
}

// momentsOf computes the central moments of the pixels carrying label in a
// row-major label image of the given width, scanning only box.
//
// The mean is found in a first pass and the spread in a second one, so that
// symmetric shapes cancel exactly instead of leaving rounding residue that
// atan2 would turn into a spurious angle.
func momentsOf(labels []int32, cols int, label int32, box image.Rectangle) CentralMoments {
	var n, sx, sy float64
	for y := box.Min.Y; y < box.Max.Y; y++ {
		row := labels[y*cols+box.Min.X : y*cols+box.Max.X]
		for x, l := range row {
			if l == label {
				n++
				sx += float64(x)
				sy += float64(y - box.Min.Y)
			}
		}
	}
	if n == 0 {
		return CentralMoments{}
	}

	cx, cy := sx/n, sy/n
	var m CentralMoments
	for y := box.Min.Y; y < box.Max.Y; y++ {
		row := labels[y*cols+box.Min.X : y*cols+box.Max.X]
		for x, l := range row {
			if l != label {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y-box.Min.Y) - cy
			m.Mu20 += dx * dx
			m.Mu02 += dy * dy
			m.Mu11 += dx * dy
		}
	}
	m.Mu20 /= n
	m.Mu02 /= n
	m.Mu11 /= n
	return m
}
