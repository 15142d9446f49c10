// Package testutil builds deterministic synthetic frames for segmentation and
// tracking tests.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"gocv.io/x/gocv"
)

// FrameGenerator creates synthetic frames of a fixed size.
//
// @example
// gen := NewFrameGenerator(200, 200)
// frame := gen.Objects(color.RGBA{0, 0, 0, 0}, image.Rect(40, 40, 60, 60))
// defer frame.Close()
type FrameGenerator struct {
	width  int
	height int
}

// NewFrameGenerator creates a new frame generator with specified dimensions.
func NewFrameGenerator(width, height int) *FrameGenerator {
	return &FrameGenerator{width: width, height: height}
}

// Mask creates a single-channel mask with every rect filled with 255 on a 0
// background, the shape a Binarizer produces.
func (g *FrameGenerator) Mask(rects ...image.Rectangle) gocv.Mat {
	mask := gocv.NewMatWithSize(g.height, g.width, gocv.MatTypeCV8UC1)
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))
	for _, r := range rects {
		gocv.Rectangle(&mask, r, color.RGBA{255, 255, 255, 0}, -1)
	}
	return mask
}

// Objects creates a BGR frame with every rect filled with fg on the opposite
// background (white for dark objects, black for bright ones).
func (g *FrameGenerator) Objects(fg color.RGBA, rects ...image.Rectangle) gocv.Mat {
	bg := 255.0
	if fg.R > 127 {
		bg = 0
	}
	frame := gocv.NewMatWithSize(g.height, g.width, gocv.MatTypeCV8UC3)
	frame.SetTo(gocv.NewScalar(bg, bg, bg, 0))
	for _, r := range rects {
		gocv.Rectangle(&frame, r, fg, -1)
	}
	return frame
}

// Bright creates a BGR frame with white rects on black, suited to a fixed threshold.
func (g *FrameGenerator) Bright(rects ...image.Rectangle) gocv.Mat {
	return g.Objects(color.RGBA{255, 255, 255, 0}, rects...)
}

// Dark creates a BGR frame with black rects on white, suited to the adaptive threshold.
func (g *FrameGenerator) Dark(rects ...image.Rectangle) gocv.Mat {
	return g.Objects(color.RGBA{0, 0, 0, 0}, rects...)
}

// WriteSequence writes frames into dir as pattern-numbered files starting at 1
// and returns their paths.
func WriteSequence(dir, pattern string, frames ...gocv.Mat) ([]string, error) {
	paths := make([]string, 0, len(frames))
	for i, f := range frames {
		path := filepath.Join(dir, fmt.Sprintf(pattern, i+1))
		if !gocv.IMWrite(path, f) {
			return nil, fmt.Errorf("failed to write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
