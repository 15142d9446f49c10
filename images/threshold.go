package images

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// The two levels every Binarizer emits.
const (
	Off uint8 = 0
	On  uint8 = 255
)

// ThresholdMode selects a Binarizer policy.
type ThresholdMode string

const (
	// ThresholdAdaptive compares each pixel against its Gaussian-weighted neighbourhood.
	ThresholdAdaptive ThresholdMode = "adaptive"
	// ThresholdFixed compares each pixel against one global constant.
	ThresholdFixed ThresholdMode = "fixed"
)

// ThresholdConfig contains the parameters of both Binarizer policies.
type ThresholdConfig struct {
	// Mode picks the policy.
	Mode ThresholdMode
	// Value is the global intensity cut used by ThresholdFixed.
	Value float32
	// BlockSize is the odd neighbourhood side used by ThresholdAdaptive.
	BlockSize int
	// C is subtracted from the neighbourhood mean by ThresholdAdaptive.
	C float32
}

// DefaultThresholdConfig returns the adaptive 11x11, C=2 configuration.
func DefaultThresholdConfig() ThresholdConfig {
	return ThresholdConfig{
		Mode:      ThresholdAdaptive,
		Value:     128,
		BlockSize: 11,
		C:         2,
	}
}

// Validate checks the parameters used by the selected mode.
func (c ThresholdConfig) Validate() error {
	switch c.Mode {
	case ThresholdFixed:
		if c.Value < 0 || c.Value > float32(On) {
			return errors.Errorf("fixed threshold must be within [0, 255], got %v", c.Value)
		}
	case ThresholdAdaptive:
		if c.BlockSize < 3 || c.BlockSize%2 == 0 {
			return errors.Errorf("adaptive block size must be odd and >= 3, got %d", c.BlockSize)
		}
	default:
		return errors.Errorf("unknown threshold mode %q", c.Mode)
	}
	return nil
}

// Binarizer turns a smoothed grayscale Mat into a mask holding only Off and On.
type Binarizer interface {
	Binarize(src gocv.Mat, dst *gocv.Mat) error
	Name() string
}

// NewBinarizer builds the policy described by c.
func NewBinarizer(c ThresholdConfig) (Binarizer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Mode == ThresholdFixed {
		return FixedThreshold{Value: c.Value}, nil
	}
	return AdaptiveThreshold{BlockSize: c.BlockSize, C: c.C}, nil
}

// FixedThreshold marks a pixel On when its intensity is strictly above Value.
type FixedThreshold struct {
	Value float32
}

// Binarize implements Binarizer.
func (f FixedThreshold) Binarize(src gocv.Mat, dst *gocv.Mat) error {
	if src.Empty() {
		return ErrEmptyMat
	}
	if src.Type() != gocv.MatTypeCV8UC1 {
		return errors.Errorf("fixed threshold expects an 8-bit single-channel Mat, got type %v", src.Type())
	}
	gocv.Threshold(src, dst, f.Value, float32(On), gocv.ThresholdBinary)
	return nil
}

// Name implements Binarizer.
func (f FixedThreshold) Name() string { return string(ThresholdFixed) }

// AdaptiveThreshold marks a pixel On when it is darker than its Gaussian-weighted
// BlockSize x BlockSize neighbourhood mean minus C. Dark objects on a lighter,
// unevenly lit background become foreground.
type AdaptiveThreshold struct {
	BlockSize int
	C         float32
}

// Binarize implements Binarizer.
func (a AdaptiveThreshold) Binarize(src gocv.Mat, dst *gocv.Mat) error {
	if src.Empty() {
		return ErrEmptyMat
	}
	if src.Type() != gocv.MatTypeCV8UC1 {
		return errors.Errorf("adaptive threshold expects an 8-bit single-channel Mat, got type %v", src.Type())
	}
	err := gocv.AdaptiveThreshold(src, dst, float32(On), gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, a.BlockSize, a.C)
	return errors.Wrap(err, "adaptive threshold failed")
}

// Name implements Binarizer.
func (a AdaptiveThreshold) Name() string { return string(ThresholdAdaptive) }
