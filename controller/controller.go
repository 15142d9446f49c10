// Package controller - This file contains the loop that drives a frame
// sequence through the engine, the user's decisions and the outputs.
package controller

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvr-ai/go-regions/features"
	"github.com/nvr-ai/go-regions/images"
	"github.com/nvr-ai/go-regions/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// PreviewPrefix is prepended to the base name of preview thumbnails.
const PreviewPrefix = "preview_"

// Report counts what a run did.
type Report struct {
	Processed  int  // Frames that went through the engine
	Skipped    int  // Frames that could not be read or processed
	Kept       int  // Regions kept across processed frames
	Records    int  // Feature records appended
	Written    int  // Output images written
	Terminated bool // Whether the user ended the run early
}

// Controller processes a frame sequence in index order until the first missing
// frame or until the user terminates.
type Controller struct {
	Engine    *Engine
	Source    *util.Sequence
	Decider   Decider
	Features  *features.Logger // Optional; nil disables feature logging
	OutputDir string
	// PreviewWidth, when non-zero, also writes a PNG thumbnail of every
	// annotated frame at this width.
	PreviewWidth uint
	Logger       *zap.SugaredLogger
}

// Run processes the sequence.
//
// Unreadable frames are skipped with a warning, as are failed feature appends
// and failed image writes. Processing stops at the first missing frame.
// Cancelling ctx ends the run like a user termination: the current frame is
// neither logged nor written.
//
// Returns:
//   - Report: What was done, also on error.
//   - error: An error if the output directory cannot be created or the
//     decider fails.
func (c *Controller) Run(ctx context.Context) (Report, error) {
	var report Report
	logger := c.logger()

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return report, errors.Wrapf(err, "failed to create output directory %s", c.OutputDir)
	}
	logger.Infow("starting", "input", c.Source.Dir(), "frames", c.Source.Len(), "output", c.OutputDir)

	for index := 1; ; index++ {
		if ctx.Err() != nil {
			report.Terminated = true
			logger.Infow("processing interrupted", "frame", index, "error", ctx.Err())
			return report, nil
		}

		frame, ok := c.Source.Frame(index)
		if !ok {
			logger.Infow("finished processing all images", "frames", index-1)
			return report, nil
		}

		stop, err := c.step(ctx, frame, &report)
		if err != nil {
			return report, err
		}
		if stop {
			logger.Infow("processing interrupted by user", "frame", frame.Index)
			return report, nil
		}
	}
}

// step handles one frame and reports whether the run should stop.
func (c *Controller) step(ctx context.Context, frame util.Frame, report *Report) (bool, error) {
	logger := c.logger()

	mat, err := c.Source.Load(frame)
	if err != nil {
		logger.Warnw("skipping unreadable frame", "frame", frame.Index, "path", frame.Path, "error", err)
		report.Skipped++
		return false, nil
	}
	defer mat.Close()

	logger.Infow("processing", "frame", frame.Index, "path", frame.Path)
	result, err := c.Engine.Process(mat)
	if err != nil {
		logger.Warnw("skipping frame", "frame", frame.Index, "error", err)
		report.Skipped++
		return false, nil
	}
	defer result.Close()

	report.Processed++
	report.Kept += len(result.Kept)
	logger.Debugw("regions", "frame", frame.Index, "found", len(result.Regions), "kept", len(result.Kept))
	for _, a := range result.Kept {
		logger.Debugw("region",
			"frame", frame.Index,
			"identity", a.Identity.String(),
			"matched", a.Matched,
			"area", a.Region.Area,
			"x", a.Region.Centroid.X,
			"y", a.Region.Centroid.Y,
		)
	}

	decision, err := c.Decider.Decide(ctx, frame, result)
	if err != nil && ctx.Err() != nil {
		report.Terminated = true
		return true, nil
	}
	if err != nil {
		return true, errors.Wrapf(err, "failed to decide on frame %d", frame.Index)
	}

	switch decision.Action {
	case ActionTerminate:
		report.Terminated = true
		return true, nil
	case ActionAccept:
		report.Records += c.logFeatures(frame, decision.Label, result)
	}

	c.writeOutputs(frame, result, report)
	return false, nil
}

func (c *Controller) logFeatures(frame util.Frame, label string, result *FrameResult) int {
	if c.Features == nil {
		return 0
	}
	n, err := c.Features.Append(label, result.KeptRegions())
	if err != nil {
		c.logger().Errorw("dropping feature records", "frame", frame.Index, "label", label, "error", err)
		return 0
	}
	c.logger().Infow("features saved", "frame", frame.Index, "label", label, "records", n, "file", c.Features.Path())
	return n
}

func (c *Controller) writeOutputs(frame util.Frame, result *FrameResult, report *Report) {
	logger := c.logger()

	path := filepath.Join(c.OutputDir, frame.Name)
	if !gocv.IMWrite(path, result.Annotated) {
		logger.Errorw("failed to save processed image", "frame", frame.Index, "path", path)
	} else {
		logger.Infow("saved processed image", "frame", frame.Index, "path", path)
		report.Written++
	}

	if c.PreviewWidth == 0 {
		return
	}
	thumb, err := images.Thumbnail(result.Annotated, c.PreviewWidth)
	if err != nil {
		logger.Errorw("failed to create preview", "frame", frame.Index, "error", err)
		return
	}
	preview := filepath.Join(c.OutputDir, PreviewName(frame.Name))
	if err := images.WritePNG(preview, thumb); err != nil {
		logger.Errorw("failed to save preview", "frame", frame.Index, "path", preview, "error", err)
	}
}

func (c *Controller) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	return c.Logger
}

// PreviewName returns the thumbnail file name for a frame file name.
func PreviewName(name string) string {
	return PreviewPrefix + strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
}
