// Package controller - This file contains the configuration of the per-frame engine.
package controller

import (
	"github.com/nvr-ai/go-regions/annotate"
	"github.com/nvr-ai/go-regions/images"
	"github.com/nvr-ai/go-regions/tracker"
	"github.com/pkg/errors"
)

// Config contains every parameter of the per-frame pipeline.
type Config struct {
	// MinRegionSize is the smallest component area, in pixels, kept as a region.
	MinRegionSize int
	// MaxRegions caps the regions kept (annotated, logged, tracked) per frame.
	MaxRegions int
	// Segmenter configures blur, threshold and morphology.
	Segmenter images.SegmenterConfig
	// Tracker configures identity matching and minting.
	Tracker tracker.Config
	// Style controls annotation drawing.
	Style annotate.Style
}

// DefaultConfig returns the configuration used when only the required
// command-line arguments are given.
func DefaultConfig() Config {
	return Config{
		MinRegionSize: 500,
		MaxRegions:    3,
		Segmenter:     images.DefaultSegmenterConfig(),
		Tracker:       tracker.DefaultConfig(),
		Style:         annotate.DefaultStyle(),
	}
}

// Validate checks the region limits and the nested configurations.
func (c Config) Validate() error {
	if c.MinRegionSize < 1 {
		return errors.Errorf("min region size must be positive, got %d", c.MinRegionSize)
	}
	if c.MaxRegions < 1 {
		return errors.Errorf("max regions must be positive, got %d", c.MaxRegions)
	}
	if err := c.Segmenter.Threshold.Validate(); err != nil {
		return err
	}
	return c.Tracker.Validate()
}
