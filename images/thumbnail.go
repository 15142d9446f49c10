package images

import (
	"image"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Thumbnail converts src to an image.Image and scales it to width, keeping the
// aspect ratio.
//
// Arguments:
//   - src: The Mat to scale (typically an annotated frame).
//   - width: Target width in pixels; must be positive.
//
// Returns:
//   - image.Image: The scaled image.
//   - error: An error if src is empty or cannot be converted.
func Thumbnail(src gocv.Mat, width uint) (image.Image, error) {
	if src.Empty() {
		return nil, ErrEmptyMat
	}
	if width == 0 {
		return nil, errors.New("thumbnail width must be positive")
	}

	img, err := src.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert Mat to image")
	}
	return resize.Resize(width, 0, img, resize.Lanczos3), nil
}

// WritePNG encodes img to path, replacing any existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return f.Close()
}
