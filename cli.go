package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nvr-ai/go-regions/controller"
	"github.com/nvr-ai/go-regions/features"
	"github.com/nvr-ai/go-regions/images"
	"github.com/nvr-ai/go-regions/util"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	// Flags.
	flagThresholdMode = "threshold-mode"
	flagThreshold     = "threshold"
	flagBlockSize     = "block-size"
	flagBias          = "bias"
	flagSeed          = "seed"
	flagMaxDistance   = "max-distance"
	flagPattern       = "pattern"
	flagLabel         = "label"
	flagWindow        = "window"
	flagPreviewWidth  = "preview-width"
	flagDebug         = "debug"

	runArgsUsage   = "<input_directory> <output_directory> <min_region_size> <max_regions> <feature_file>"
	cleanArgsUsage = "<input_directory> <output_directory> <threshold>"
)

func newApp() *cli.App {
	defaults := controller.DefaultConfig()
	return &cli.App{
		Name:      "regions",
		Usage:     "segment an image sequence, track its largest regions and record labeled features",
		ArgsUsage: runArgsUsage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagThresholdMode,
				Value:   string(defaults.Segmenter.Threshold.Mode),
				Usage:   "binarization policy: adaptive or fixed",
				EnvVars: []string{"REGIONS_THRESHOLD_MODE"},
			},
			&cli.Float64Flag{
				Name:    flagThreshold,
				Value:   float64(defaults.Segmenter.Threshold.Value),
				Usage:   "intensity above which a pixel is foreground in fixed mode",
				EnvVars: []string{"REGIONS_THRESHOLD"},
			},
			&cli.IntFlag{
				Name:    flagBlockSize,
				Value:   defaults.Segmenter.Threshold.BlockSize,
				Usage:   "odd neighbourhood size of the adaptive threshold",
				EnvVars: []string{"REGIONS_BLOCK_SIZE"},
			},
			&cli.Float64Flag{
				Name:    flagBias,
				Value:   float64(defaults.Segmenter.Threshold.C),
				Usage:   "constant subtracted from the adaptive neighbourhood mean",
				EnvVars: []string{"REGIONS_BIAS"},
			},
			&cli.Uint64Flag{
				Name:    flagSeed,
				Value:   defaults.Tracker.Seed,
				Usage:   "seed of the identity generator",
				EnvVars: []string{"REGIONS_SEED"},
			},
			&cli.Float64Flag{
				Name:    flagMaxDistance,
				Value:   defaults.Tracker.MaxCentroidDistance,
				Usage:   "centroid distance, in pixels, below which a region keeps its identity",
				EnvVars: []string{"REGIONS_MAX_DISTANCE"},
			},
			patternFlag(),
			&cli.StringFlag{
				Name:    flagLabel,
				Usage:   "label every frame with this value instead of asking",
				EnvVars: []string{"REGIONS_LABEL"},
			},
			&cli.BoolFlag{
				Name:    flagWindow,
				Usage:   "show each frame in windows and read keys from them",
				EnvVars: []string{"REGIONS_WINDOW"},
			},
			&cli.UintFlag{
				Name:    flagPreviewWidth,
				Usage:   "also write PNG thumbnails of this width",
				EnvVars: []string{"REGIONS_PREVIEW_WIDTH"},
			},
			debugFlag(),
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:      "clean",
				Usage:     "write the cleaned fixed-threshold mask of every frame",
				ArgsUsage: cleanArgsUsage,
				Flags:     []cli.Flag{patternFlag(), debugFlag()},
				Action:    cleanAction,
			},
			{
				Name:      "summary",
				Usage:     "print per-label statistics of a feature file",
				ArgsUsage: "<feature_file>",
				Action:    summaryAction,
			},
		},
	}
}

func patternFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagPattern,
		Value:   util.DefaultPattern,
		Usage:   "frame file name pattern holding a single %d for the 1-based index",
		EnvVars: []string{"REGIONS_PATTERN"},
	}
}

func debugFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    flagDebug,
		Usage:   "enable debug logging",
		EnvVars: []string{"REGIONS_DEBUG"},
	}
}

func runAction(c *cli.Context) error {
	if c.NArg() != 5 {
		return errors.Errorf("expected arguments %s, got %d", runArgsUsage, c.NArg())
	}
	args := c.Args()

	cfg := controller.DefaultConfig()
	var err error
	if cfg.MinRegionSize, err = positiveInt("min_region_size", args.Get(2)); err != nil {
		return err
	}
	if cfg.MaxRegions, err = positiveInt("max_regions", args.Get(3)); err != nil {
		return err
	}
	cfg.Segmenter.Threshold = images.ThresholdConfig{
		Mode:      images.ThresholdMode(c.String(flagThresholdMode)),
		Value:     float32(c.Float64(flagThreshold)),
		BlockSize: c.Int(flagBlockSize),
		C:         float32(c.Float64(flagBias)),
	}
	cfg.Tracker.Seed = c.Uint64(flagSeed)
	cfg.Tracker.MaxCentroidDistance = c.Float64(flagMaxDistance)

	source, err := util.NewSequence(args.Get(0), c.String(flagPattern))
	if err != nil {
		return err
	}

	logger, err := newLogger(c.Bool(flagDebug))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	engine, err := controller.NewEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	decider, closeDecider := newDecider(c)
	defer closeDecider()

	ctrl := &controller.Controller{
		Engine:       engine,
		Source:       source,
		Decider:      decider,
		Features:     features.NewLogger(args.Get(4), logger),
		OutputDir:    args.Get(1),
		PreviewWidth: c.Uint(flagPreviewWidth),
		Logger:       logger,
	}
	report, err := ctrl.Run(c.Context)
	printReport(c.App.Writer, report)
	return err
}

func newDecider(c *cli.Context) (controller.Decider, func()) {
	if label := c.String(flagLabel); label != "" {
		return controller.FixedLabel(label), func() {}
	}
	if c.Bool(flagWindow) {
		w := controller.NewWindowDecider(c.App.Reader, c.App.Writer)
		return w, func() { _ = w.Close() }
	}
	return controller.NewPromptDecider(c.App.Reader, c.App.Writer), func() {}
}

func cleanAction(c *cli.Context) error {
	if c.NArg() != 3 {
		return errors.Errorf("expected arguments %s, got %d", cleanArgsUsage, c.NArg())
	}
	args := c.Args()

	threshold, err := strconv.ParseFloat(args.Get(2), 32)
	if err != nil {
		return errors.Errorf("threshold must be a number, got %q", args.Get(2))
	}
	source, err := util.NewSequence(args.Get(0), c.String(flagPattern))
	if err != nil {
		return err
	}

	logger, err := newLogger(c.Bool(flagDebug))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	segmenter, err := images.NewSegmenter(images.SegmenterConfig{
		MorphKernelSize: images.DefaultMorphKernelSize,
		Threshold:       images.ThresholdConfig{Mode: images.ThresholdFixed, Value: float32(threshold)},
	})
	if err != nil {
		return err
	}
	defer segmenter.Close()

	report, err := controller.CleanSequence(c.Context, source, args.Get(1), segmenter, logger)
	printReport(c.App.Writer, report)
	return err
}

func summaryAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.Errorf("expected argument <feature_file>, got %d", c.NArg())
	}
	records, err := features.Read(c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, features.RenderSummaries(features.Summarize(records)))
	return nil
}

func positiveInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, errors.Errorf("%s must be a positive integer, got %q", name, value)
	}
	return n, nil
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger.Sugar(), nil
}

func printReport(w io.Writer, r controller.Report) {
	fmt.Fprintf(w, "processed %d frame(s), skipped %d, kept %d region(s), wrote %d image(s), appended %d record(s)\n",
		r.Processed, r.Skipped, r.Kept, r.Written, r.Records)
}
