package util

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-regions/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestSequenceProbesUntilFirstGap(t *testing.T) {
	dir := t.TempDir()
	gen := testutil.NewFrameGenerator(40, 30)
	frames := []gocv.Mat{gen.Dark(image.Rect(5, 5, 10, 10)), gen.Dark(), gen.Dark()}
	for _, f := range frames {
		defer f.Close()
	}
	_, err := testutil.WriteSequence(dir, DefaultPattern, frames...)
	require.NoError(t, err)

	// A frame after the gap is never reached.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img5p3.png"), []byte("x"), 0o644))

	seq, err := NewSequence(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 3, seq.Len())

	f, ok := seq.Frame(2)
	require.True(t, ok)
	assert.Equal(t, Frame{Index: 2, Name: "img2p3.png", Path: filepath.Join(dir, "img2p3.png")}, f)

	_, ok = seq.Frame(4)
	assert.False(t, ok)
}

func TestSequenceLoad(t *testing.T) {
	dir := t.TempDir()
	frame := testutil.NewFrameGenerator(40, 30).Dark(image.Rect(5, 5, 10, 10))
	defer frame.Close()
	_, err := testutil.WriteSequence(dir, "frame-%d.png", frame)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-2.png"), []byte("not an image"), 0o644))

	seq, err := NewSequence(dir, "frame-%d.png")
	require.NoError(t, err)

	f, ok := seq.Frame(1)
	require.True(t, ok)
	mat, err := seq.Load(f)
	require.NoError(t, err)
	defer mat.Close()
	assert.Equal(t, 30, mat.Rows())
	assert.Equal(t, 40, mat.Cols())
	assert.Equal(t, 3, mat.Channels())

	f, ok = seq.Frame(2)
	require.True(t, ok)
	bad, err := seq.Load(f)
	defer bad.Close()
	assert.Error(t, err)
}

func TestNewSequenceValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewSequence(filepath.Join(dir, "missing"), "")
	assert.ErrorIs(t, err, ErrNotDirectory)

	_, err = NewSequence(file, "")
	assert.ErrorIs(t, err, ErrNotDirectory)

	_, err = NewSequence(dir, "static.png")
	assert.Error(t, err)

	_, err = NewSequence(dir, "sub/img%d.png")
	assert.Error(t, err)
}
