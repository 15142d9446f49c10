// Package util - Frame sources that address numbered image files on disk.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DefaultPattern names the frames of a sequence: img1p3.png, img2p3.png, ...
const DefaultPattern = "img%dp3.png"

// ErrNotDirectory is returned when a sequence root is missing or not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Frame identifies one image of a sequence.
type Frame struct {
	// Index is the 1-based position in the sequence.
	Index int
	// Name is the file name, reused for outputs.
	Name string
	// Path is the full path to the image file.
	Path string
}

// Sequence addresses numbered image files in a directory.
//
// The length of a sequence is not stored anywhere: callers probe indices 1, 2,
// 3, ... and the sequence ends at the first index whose file is missing.
type Sequence struct {
	dir     string
	pattern string
}

// NewSequence validates dir and returns a Sequence using pattern, which must
// contain exactly one %d verb. An empty pattern selects DefaultPattern.
//
// Returns:
//   - *Sequence: The sequence.
//   - error: ErrNotDirectory (wrapped) if dir is not a directory, or a pattern error.
func NewSequence(dir, pattern string) (*Sequence, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	name := fmt.Sprintf(pattern, 1)
	if strings.Count(pattern, "%d") != 1 || strings.Contains(name, "%!") || filepath.Base(name) != name {
		return nil, errors.Errorf("invalid frame name pattern %q", pattern)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrNotDirectory, "input path %s", dir)
	}
	return &Sequence{dir: dir, pattern: pattern}, nil
}

// Dir returns the sequence directory.
func (s *Sequence) Dir() string {
	return s.dir
}

// Frame returns the frame at index and whether its file exists.
func (s *Sequence) Frame(index int) (Frame, bool) {
	name := fmt.Sprintf(s.pattern, index)
	f := Frame{Index: index, Name: name, Path: filepath.Join(s.dir, name)}
	info, err := os.Stat(f.Path)
	if err != nil || info.IsDir() {
		return f, false
	}
	return f, true
}

// Load decodes the frame as an 8-bit BGR Mat. The caller must Close it.
//
// Returns:
//   - gocv.Mat: The decoded frame.
//   - error: An error if the file cannot be read or decoded.
func (s *Sequence) Load(f Frame) (gocv.Mat, error) {
	mat := gocv.IMRead(f.Path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), errors.Errorf("could not read image file %s", f.Path)
	}
	return mat, nil
}

// Len probes the sequence and returns the number of consecutive frames from 1.
func (s *Sequence) Len() int {
	n := 0
	for {
		if _, ok := s.Frame(n + 1); !ok {
			return n
		}
		n++
	}
}
