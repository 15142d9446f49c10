// Package images - Segmentation stages that turn a raw frame into a clean
// two-level foreground mask using OpenCV (via gocv).
package images

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrEmptyMat is returned when a stage receives a Mat without pixel data.
var ErrEmptyMat = errors.New("input Mat is empty")

// DefaultBlurKernelSize is the side of the Gaussian kernel applied before thresholding.
const DefaultBlurKernelSize = 5

// Preprocess converts src to single-channel intensity and smooths it with a
// kernelSize x kernelSize Gaussian blur. The result has the dimensions of src.
//
// Arguments:
//   - src: BGR, BGRA or grayscale 8-bit frame.
//   - dst: Destination Mat, overwritten.
//   - kernelSize: Odd blur kernel side, or 0 to skip smoothing.
//
// Returns:
//   - error: ErrEmptyMat for an empty frame, or a validation error.
func Preprocess(src gocv.Mat, dst *gocv.Mat, kernelSize int) error {
	if src.Empty() {
		return ErrEmptyMat
	}
	if kernelSize < 0 || (kernelSize > 0 && kernelSize%2 == 0) {
		return errors.Errorf("blur kernel size must be 0 or a positive odd number, got %d", kernelSize)
	}

	gray := gocv.NewMat()
	defer gray.Close()

	var err error
	switch src.Channels() {
	case 1:
		err = src.CopyTo(&gray)
	case 3:
		err = gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	case 4:
		err = gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	default:
		return errors.Errorf("unsupported channel count %d", src.Channels())
	}
	if err != nil {
		return errors.Wrap(err, "failed to convert to grayscale")
	}

	if kernelSize == 0 {
		return errors.Wrap(gray.CopyTo(dst), "failed to copy grayscale frame")
	}

	// Sigma 0 lets OpenCV derive it from the kernel size.
	if err := gocv.GaussianBlur(gray, dst, image.Pt(kernelSize, kernelSize), 0, 0, gocv.BorderDefault); err != nil {
		return errors.Wrap(err, "failed to blur")
	}
	return nil
}
