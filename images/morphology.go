package images

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DefaultMorphKernelSize is the side of the square structuring element.
const DefaultMorphKernelSize = 3

// Cleaner removes specks and fills pinholes in a binary mask.
//
// Clean always runs a closing pass before an opening pass with the same square
// structuring element: closing merges nearby fragments of larger shapes first,
// then opening strips whatever isolated noise is left.
type Cleaner struct {
	kernel gocv.Mat
}

// NewCleaner allocates a size x size rectangular structuring element.
//
// Always call Close() to release the kernel.
func NewCleaner(size int) (*Cleaner, error) {
	if size < 1 {
		return nil, errors.Errorf("structuring element size must be positive, got %d", size)
	}
	return &Cleaner{kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))}, nil
}

// Clean writes the closed-then-opened version of src into dst.
func (c *Cleaner) Clean(src gocv.Mat, dst *gocv.Mat) error {
	if src.Empty() {
		return ErrEmptyMat
	}

	closed := gocv.NewMat()
	defer closed.Close()

	if err := gocv.MorphologyEx(src, &closed, gocv.MorphClose, c.kernel); err != nil {
		return errors.Wrap(err, "closing failed")
	}
	return errors.Wrap(gocv.MorphologyEx(closed, dst, gocv.MorphOpen, c.kernel), "opening failed")
}

// Close releases the structuring element.
func (c *Cleaner) Close() {
	c.kernel.Close()
}
