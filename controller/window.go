package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/nvr-ai/go-regions/util"
	"gocv.io/x/gocv"
)

// Window titles, one per stage shown to the user.
const (
	WindowOriginal    = "Original"
	WindowProcessed   = "Processed"
	WindowThresholded = "Thresholded"
	WindowCleaned     = "Cleaned"
)

// keyPollMillis bounds how long a cancelled context goes unnoticed while
// waiting for a key.
const keyPollMillis = 100

// WindowDecider shows each stage of the frame in a gocv window, waits for a
// key, and reads the label from a text prompt after 'n'.
type WindowDecider struct {
	original    *gocv.Window
	processed   *gocv.Window
	thresholded *gocv.Window
	cleaned     *gocv.Window
	prompt      *PromptDecider
	out         io.Writer
}

// NewWindowDecider opens the four display windows.
//
// Always call Close() to destroy them.
func NewWindowDecider(in io.Reader, out io.Writer) *WindowDecider {
	return &WindowDecider{
		original:    gocv.NewWindow(WindowOriginal),
		processed:   gocv.NewWindow(WindowProcessed),
		thresholded: gocv.NewWindow(WindowThresholded),
		cleaned:     gocv.NewWindow(WindowCleaned),
		prompt:      NewPromptDecider(in, out),
		out:         out,
	}
}

// Decide displays the frame and blocks until a key is pressed.
func (w *WindowDecider) Decide(ctx context.Context, frame util.Frame, result *FrameResult) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	w.original.IMShow(result.Original)
	w.processed.IMShow(result.Annotated)
	w.thresholded.IMShow(result.Binary)
	w.cleaned.IMShow(result.Cleaned)

	fmt.Fprintf(w.out, "%s: press 'n' to label the current object, or ESC to exit.\n", frame.Name)
	for {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		// WaitKey returns -1 when no key was pressed within the delay.
		if key := w.processed.WaitKey(keyPollMillis); key >= 0 {
			return w.prompt.decideKey(ctx, key&0xFF)
		}
	}
}

// Close destroys the windows.
func (w *WindowDecider) Close() error {
	for _, win := range []*gocv.Window{w.original, w.processed, w.thresholded, w.cleaned} {
		if err := win.Close(); err != nil {
			return err
		}
	}
	return nil
}
