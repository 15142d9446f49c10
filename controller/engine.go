// Package controller - This file contains the per-frame engine that chains
// segmentation, region extraction, identity tracking and annotation.
package controller

import (
	"github.com/nvr-ai/go-regions/annotate"
	"github.com/nvr-ai/go-regions/images"
	"github.com/nvr-ai/go-regions/regions"
	"github.com/nvr-ai/go-regions/tracker"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gocv.io/x/gocv"
)

// FrameResult is everything produced for one frame.
type FrameResult struct {
	// Original is the input frame. It is borrowed from the caller and not closed by Close.
	Original gocv.Mat
	// Binary is the thresholded mask.
	Binary gocv.Mat
	// Cleaned is the mask after morphology.
	Cleaned gocv.Mat
	// Annotated is the original with the kept regions drawn on it.
	Annotated gocv.Mat
	// Regions holds every extracted region, largest first.
	Regions []regions.Region
	// Kept holds the regions accepted for annotation, logging and tracking.
	Kept []annotate.Annotation
}

// KeptRegions returns the descriptors of the kept regions.
func (r *FrameResult) KeptRegions() []regions.Region {
	return lo.Map(r.Kept, func(a annotate.Annotation, _ int) regions.Region {
		return a.Region
	})
}

// Close releases the Mats owned by the result.
func (r *FrameResult) Close() {
	r.Binary.Close()
	r.Cleaned.Close()
	r.Annotated.Close()
}

// Engine processes the frames of one sequence in order. Its tracker state
// carries from each Process call to the next, so an Engine must not be shared
// between sequences or goroutines.
type Engine struct {
	config    Config
	segmenter *images.Segmenter
	tracker   *tracker.Tracker
	annotator *annotate.Annotator
}

// NewEngine validates config and builds an engine with an empty tracker.
//
// Always call Close() to release native resources.
func NewEngine(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	tr, err := tracker.New(config.Tracker)
	if err != nil {
		return nil, err
	}
	annotator, err := annotate.New(config.MaxRegions, config.Style)
	if err != nil {
		return nil, err
	}
	segmenter, err := images.NewSegmenter(config.Segmenter)
	if err != nil {
		return nil, err
	}
	return &Engine{
		config:    config,
		segmenter: segmenter,
		tracker:   tr,
		annotator: annotator,
	}, nil
}

// Process runs the whole pipeline on frame and advances the tracker.
//
// Arguments:
//   - frame: BGR or grayscale 8-bit frame; still owned by the caller.
//
// Returns:
//   - *FrameResult: Masks, regions and annotations; the caller must Close it.
//   - error: An error if the frame is empty or a stage fails. The tracker is
//     left unchanged in that case.
func (e *Engine) Process(frame gocv.Mat) (*FrameResult, error) {
	if err := e.segmenter.Segment(frame); err != nil {
		return nil, errors.Wrap(err, "segment")
	}

	rs, err := regions.Extract(e.segmenter.Cleaned, e.config.MinRegionSize)
	if err != nil {
		return nil, errors.Wrap(err, "extract regions")
	}

	annotated, kept, err := e.annotator.Annotate(frame, rs, e.tracker)
	if err != nil {
		annotated.Close()
		return nil, errors.Wrap(err, "annotate")
	}

	return &FrameResult{
		Original:  frame,
		Binary:    e.segmenter.Binary.Clone(),
		Cleaned:   e.segmenter.Cleaned.Clone(),
		Annotated: annotated,
		Regions:   rs,
		Kept:      kept,
	}, nil
}

// Tracker exposes the engine's tracker, e.g. to inspect its snapshot.
func (e *Engine) Tracker() *tracker.Tracker {
	return e.tracker
}

// Close releases the segmenter buffers.
func (e *Engine) Close() {
	e.segmenter.Close()
}
