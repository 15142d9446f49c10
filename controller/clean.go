package controller

import (
	"context"
	"os"
	"path/filepath"

	"github.com/nvr-ai/go-regions/images"
	"github.com/nvr-ai/go-regions/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// CleanSequence writes the cleaned mask of every frame of source into outputDir
// under the frame's own name. Nothing is tracked, annotated or logged.
//
// Returns:
//   - Report: Processed, Skipped and Written are filled in.
//   - error: An error if outputDir cannot be created or ctx is cancelled.
func CleanSequence(ctx context.Context, source *util.Sequence, outputDir string, segmenter *images.Segmenter, logger *zap.SugaredLogger) (Report, error) {
	var report Report
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return report, errors.Wrapf(err, "failed to create output directory %s", outputDir)
	}

	for index := 1; ; index++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		frame, ok := source.Frame(index)
		if !ok {
			logger.Infow("finished cleaning all images", "frames", index-1)
			return report, nil
		}

		if err := cleanFrame(source, frame, outputDir, segmenter); err != nil {
			logger.Warnw("skipping frame", "frame", frame.Index, "path", frame.Path, "error", err)
			report.Skipped++
			continue
		}
		report.Processed++
		report.Written++
		logger.Debugw("cleaned", "frame", frame.Index, "path", frame.Path)
	}
}

func cleanFrame(source *util.Sequence, frame util.Frame, outputDir string, segmenter *images.Segmenter) error {
	mat, err := source.Load(frame)
	if err != nil {
		return err
	}
	defer mat.Close()

	if err := segmenter.Segment(mat); err != nil {
		return err
	}
	path := filepath.Join(outputDir, frame.Name)
	if !gocv.IMWrite(path, segmenter.Cleaned) {
		return errors.Errorf("failed to write %s", path)
	}
	return nil
}
