package images

import (
	"image"
	"testing"

	"github.com/nvr-ai/go-regions/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestPreprocessKeepsDimensions(t *testing.T) {
	gen := testutil.NewFrameGenerator(64, 48)
	frame := gen.Dark(image.Rect(10, 10, 20, 20))
	defer frame.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	require.NoError(t, Preprocess(frame, &dst, DefaultBlurKernelSize))
	assert.Equal(t, 48, dst.Rows())
	assert.Equal(t, 64, dst.Cols())
	assert.Equal(t, 1, dst.Channels())
}

func TestPreprocessWithoutBlurIsPlainGrayscale(t *testing.T) {
	gen := testutil.NewFrameGenerator(32, 32)
	mask := gen.Mask(image.Rect(8, 8, 16, 16))
	defer mask.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	require.NoError(t, Preprocess(mask, &dst, 0))
	assert.Equal(t, ComputeMatChecksum(mask), ComputeMatChecksum(dst))
}

func TestPreprocessRejectsBadInput(t *testing.T) {
	dst := gocv.NewMat()
	defer dst.Close()

	empty := gocv.NewMat()
	defer empty.Close()
	assert.ErrorIs(t, Preprocess(empty, &dst, DefaultBlurKernelSize), ErrEmptyMat)

	frame := testutil.NewFrameGenerator(16, 16).Dark()
	defer frame.Close()
	assert.Error(t, Preprocess(frame, &dst, 4))
	assert.Error(t, Preprocess(frame, &dst, -1))
}
