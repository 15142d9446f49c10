package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvr-ai/go-regions/testutil"
	"github.com/nvr-ai/go-regions/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"regions"}, args...))
	return out.String(), err
}

func writeFrames(t *testing.T, rects ...image.Rectangle) string {
	t.Helper()
	dir := t.TempDir()
	gen := testutil.NewFrameGenerator(120, 100)
	frames := make([]gocv.Mat, 0, len(rects))
	for _, r := range rects {
		f := gen.Bright(r)
		defer f.Close()
		frames = append(frames, f)
	}
	_, err := testutil.WriteSequence(dir, util.DefaultPattern, frames...)
	require.NoError(t, err)
	return dir
}

func TestRunArgumentErrors(t *testing.T) {
	input := t.TempDir()
	notDir := filepath.Join(input, "file")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "too few", args: []string{input, "out", "10"}, want: "expected arguments"},
		{name: "too many", args: []string{input, "out", "10", "2", "f.csv", "extra"}, want: "expected arguments"},
		{name: "zero min size", args: []string{input, "out", "0", "2", "f.csv"}, want: "min_region_size must be a positive integer"},
		{name: "text max regions", args: []string{input, "out", "10", "two", "f.csv"}, want: "max_regions must be a positive integer"},
		{name: "negative max regions", args: []string{input, "out", "10", "-1", "f.csv"}, want: "max_regions must be a positive integer"},
		{name: "input not a directory", args: []string{notDir, "out", "10", "2", "f.csv"}, want: "not a directory"},
		{name: "bad threshold mode", args: []string{"--threshold-mode", "otsu", input, "out", "10", "2", "f.csv"}, want: "unknown threshold mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunHeadless(t *testing.T) {
	input := writeFrames(t, image.Rect(30, 30, 50, 50), image.Rect(31, 30, 51, 50))
	output := filepath.Join(t.TempDir(), "out")
	featureFile := filepath.Join(t.TempDir(), "features.csv")

	out, err := runApp(t, "",
		"--threshold-mode", "fixed", "--threshold", "128", "--label", "blob",
		input, output, "50", "3", featureFile)
	require.NoError(t, err)
	assert.Contains(t, out, "processed 2 frame(s)")

	data, err := os.ReadFile(featureFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "blob,"))
		assert.Len(t, strings.Split(line, ","), 5)
	}
	assert.FileExists(t, filepath.Join(output, "img1p3.png"))
	assert.FileExists(t, filepath.Join(output, "img2p3.png"))
}

func TestRunInteractive(t *testing.T) {
	input := writeFrames(t, image.Rect(30, 30, 50, 50), image.Rect(31, 30, 51, 50), image.Rect(32, 30, 52, 50))
	output := filepath.Join(t.TempDir(), "out")
	featureFile := filepath.Join(t.TempDir(), "features.csv")

	out, err := runApp(t, "n\nscrew\n\nq\n",
		"--threshold-mode", "fixed", input, output, "50", "3", featureFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Enter label for the current object")

	data, err := os.ReadFile(featureFile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
	assert.FileExists(t, filepath.Join(output, "img2p3.png"))
	assert.NoFileExists(t, filepath.Join(output, "img3p3.png"))
}

func TestCleanCommand(t *testing.T) {
	input := writeFrames(t, image.Rect(30, 30, 50, 50))
	output := filepath.Join(t.TempDir(), "masks")

	out, err := runApp(t, "", "clean", input, output, "128")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 image(s)")

	mask := gocv.IMRead(filepath.Join(output, "img1p3.png"), gocv.IMReadGrayScale)
	defer mask.Close()
	require.False(t, mask.Empty())
	assert.Equal(t, 400, gocv.CountNonZero(mask))

	_, err = runApp(t, "", "clean", input, output, "high")
	assert.Error(t, err)
	_, err = runApp(t, "", "clean", input, output)
	assert.Error(t, err)
}

func TestSummaryCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	require.NoError(t, os.WriteFile(path, []byte("screw,300,3,1,0\nscrew,100,1,0.5,0\nnut,50,1,1,0\n"), 0o644))

	out, err := runApp(t, "", "summary", path)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "label")
	assert.Contains(t, out, "screw")
	assert.Contains(t, out, "nut")
	assert.Contains(t, out, "200.000")

	_, err = runApp(t, "", "summary", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
