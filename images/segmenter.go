// Package images - This file contains the foreground segmentation pipeline
// using OpenCV (via gocv).
//
// The Segmenter struct chains the three mask-producing stages:
//  1. Preprocessing (grayscale, Gaussian blur).
//  2. Binarization (fixed or adaptive threshold).
//  3. Morphological cleaning (closing, then opening).
//
// Pipeline Overview:
//
// ┌──────────────┐
// │ Input Frame  │
// └──────┬───────┘
// ┌────────────────────────────┐
// │ Preprocess (gray, blur)    │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Binarize (two levels)      │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Clean (close, then open)   │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Foreground Mask Output     │
// └────────────────────────────┘
//
// Usage:
//
//	seg, err := images.NewSegmenter(images.DefaultSegmenterConfig())
//	if err != nil {
//	    return err
//	}
//	defer seg.Close()
//
//	for frame := range frames {
//	    if err := seg.Segment(frame); err != nil {
//	        continue
//	    }
//	    regions.Extract(seg.Cleaned, minSize)
//	}
//
// The intermediate Mats are reused across frames and are overwritten by every
// Segment call; Clone them to keep a copy. Call Close() when finished to release
// native resources.
package images

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// SegmenterConfig configures every stage of a Segmenter.
type SegmenterConfig struct {
	// BlurKernelSize is the Gaussian kernel side; 0 disables smoothing.
	BlurKernelSize int
	// MorphKernelSize is the side of the square structuring element.
	MorphKernelSize int
	// Threshold selects and parameterises the Binarizer.
	Threshold ThresholdConfig
}

// DefaultSegmenterConfig returns a 5x5 blur, adaptive threshold and 3x3 cleaning.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		BlurKernelSize:  DefaultBlurKernelSize,
		MorphKernelSize: DefaultMorphKernelSize,
		Threshold:       DefaultThresholdConfig(),
	}
}

// Segmenter holds the intermediate results of the last Segment call.
type Segmenter struct {
	Smoothed  gocv.Mat  // Grayscale, blurred frame
	Binary    gocv.Mat  // Two-level mask straight from the Binarizer
	Cleaned   gocv.Mat  // Binary after closing and opening
	Binarizer Binarizer // Active threshold policy

	cleaner        *Cleaner
	blurKernelSize int
}

// NewSegmenter validates cfg and allocates the stage buffers.
func NewSegmenter(cfg SegmenterConfig) (*Segmenter, error) {
	binarizer, err := NewBinarizer(cfg.Threshold)
	if err != nil {
		return nil, errors.Wrap(err, "invalid threshold configuration")
	}
	if cfg.BlurKernelSize < 0 || (cfg.BlurKernelSize > 0 && cfg.BlurKernelSize%2 == 0) {
		return nil, errors.Errorf("blur kernel size must be 0 or a positive odd number, got %d", cfg.BlurKernelSize)
	}
	cleaner, err := NewCleaner(cfg.MorphKernelSize)
	if err != nil {
		return nil, err
	}

	return &Segmenter{
		Smoothed:       gocv.NewMat(),
		Binary:         gocv.NewMat(),
		Cleaned:        gocv.NewMat(),
		Binarizer:      binarizer,
		cleaner:        cleaner,
		blurKernelSize: cfg.BlurKernelSize,
	}, nil
}

// Segment runs preprocess, binarize and clean on frame.
//
// Side Effect: Overwrites Smoothed, Binary and Cleaned.
func (s *Segmenter) Segment(frame gocv.Mat) error {
	if err := Preprocess(frame, &s.Smoothed, s.blurKernelSize); err != nil {
		return errors.Wrap(err, "preprocess")
	}
	if err := s.Binarizer.Binarize(s.Smoothed, &s.Binary); err != nil {
		return errors.Wrapf(err, "%s threshold", s.Binarizer.Name())
	}
	if err := s.cleaner.Clean(s.Binary, &s.Cleaned); err != nil {
		return errors.Wrap(err, "clean")
	}
	return nil
}

// Close releases all OpenCV native resources used by the segmenter.
func (s *Segmenter) Close() {
	s.Smoothed.Close()
	s.Binary.Close()
	s.Cleaned.Close()
	s.cleaner.Close()
}
