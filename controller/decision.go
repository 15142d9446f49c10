// Package controller - This file contains the per-frame user decision and the
// non-interactive ways of producing it.
package controller

import (
	"context"

	"github.com/nvr-ai/go-regions/util"
)

// Action is what the driving loop does with a processed frame.
type Action int

const (
	// ActionSkip writes the annotated frame without logging features.
	ActionSkip Action = iota
	// ActionAccept logs the kept regions under a label, then writes the frame.
	ActionAccept
	// ActionTerminate stops the loop before the current frame is written.
	ActionTerminate
)

// String returns the lower-case action name.
func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionTerminate:
		return "terminate"
	default:
		return "skip"
	}
}

// Decision is the outcome of asking the user about one frame.
type Decision struct {
	Action Action
	Label  string // Set only for ActionAccept
}

// Accept returns a decision that labels every kept region of the frame.
func Accept(label string) Decision {
	return Decision{Action: ActionAccept, Label: label}
}

// Skip returns a decision that moves on without logging.
func Skip() Decision {
	return Decision{Action: ActionSkip}
}

// Terminate returns a decision that ends the run.
func Terminate() Decision {
	return Decision{Action: ActionTerminate}
}

// Decider chooses what to do with each processed frame.
type Decider interface {
	// Decide is called once per processed frame, after annotation and before
	// the frame is written. An error aborts the run.
	Decide(ctx context.Context, frame util.Frame, result *FrameResult) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, frame util.Frame, result *FrameResult) (Decision, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, frame util.Frame, result *FrameResult) (Decision, error) {
	return f(ctx, frame, result)
}

// FixedLabel accepts every frame under the same label. It drives headless runs.
type FixedLabel string

// Decide accepts the frame, or skips it when the label is empty.
func (l FixedLabel) Decide(context.Context, util.Frame, *FrameResult) (Decision, error) {
	if l == "" {
		return Skip(), nil
	}
	return Accept(string(l)), nil
}

// ScriptedDecider replays a fixed list of decisions and skips once it runs out.
type ScriptedDecider struct {
	Decisions []Decision
	next      int
}

// Decide returns the next scripted decision.
func (s *ScriptedDecider) Decide(context.Context, util.Frame, *FrameResult) (Decision, error) {
	if s.next >= len(s.Decisions) {
		return Skip(), nil
	}
	d := s.Decisions[s.next]
	s.next++
	return d, nil
}
