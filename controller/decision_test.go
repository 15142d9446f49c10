package controller

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nvr-ai/go-regions/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptDecider(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Decision
	}{
		{name: "label", input: "n\nscrew\n", want: Accept("screw")},
		{name: "first token of label", input: "n\n  bolt nut \n", want: Accept("bolt")},
		{name: "blank lines before label", input: "n\n\n\nwasher\n", want: Accept("washer")},
		{name: "label without newline", input: "n\nnail", want: Accept("nail")},
		{name: "upper case", input: "N\nscrew\n", want: Accept("screw")},
		{name: "quit", input: "q\n", want: Terminate()},
		{name: "escape", input: "\x1b\n", want: Terminate()},
		{name: "other key", input: "x\n", want: Skip()},
		{name: "enter", input: "\n", want: Skip()},
		{name: "end of input", input: "", want: Terminate()},
		{name: "end of input before label", input: "n\n", want: Terminate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPromptDecider(strings.NewReader(tt.input), &out)
			got, err := p.Decide(context.Background(), util.Frame{Index: 1, Name: "img1p3.png"}, &FrameResult{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "img1p3.png: 0 region(s) kept")
		})
	}
}

func TestPromptDeciderReadsSequentially(t *testing.T) {
	p := NewPromptDecider(strings.NewReader("n\nscrew\n\nq\n"), &bytes.Buffer{})
	var got []Decision
	for i := 0; i < 3; i++ {
		d, err := p.Decide(context.Background(), util.Frame{Index: i + 1}, &FrameResult{})
		require.NoError(t, err)
		got = append(got, d)
	}
	assert.Equal(t, []Decision{Accept("screw"), Skip(), Terminate()}, got)
}

func TestPromptDeciderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPromptDecider(strings.NewReader("n\n"), &bytes.Buffer{}).Decide(ctx, util.Frame{}, &FrameResult{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptDeciderReturnsOnCancelWhileWaiting(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPromptDecider(in, &bytes.Buffer{})

	done := make(chan error, 1)
	go func() {
		_, err := p.Decide(ctx, util.Frame{Index: 1}, &FrameResult{})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Decide did not return after cancellation")
	}
}

func TestScriptedDecider(t *testing.T) {
	s := &ScriptedDecider{Decisions: []Decision{Accept("a"), Terminate()}}
	var got []Decision
	for i := 0; i < 3; i++ {
		d, err := s.Decide(context.Background(), util.Frame{}, nil)
		require.NoError(t, err)
		got = append(got, d)
	}
	assert.Equal(t, []Decision{Accept("a"), Terminate(), Skip()}, got)
}

func TestFixedLabel(t *testing.T) {
	d, err := FixedLabel("screw").Decide(context.Background(), util.Frame{}, nil)
	require.NoError(t, err)
	assert.Equal(t, Accept("screw"), d)

	d, err = FixedLabel("").Decide(context.Background(), util.Frame{}, nil)
	require.NoError(t, err)
	assert.Equal(t, Skip(), d)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "accept", ActionAccept.String())
	assert.Equal(t, "skip", ActionSkip.String())
	assert.Equal(t, "terminate", ActionTerminate.String())
}
