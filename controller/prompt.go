package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nvr-ai/go-regions/util"
	"github.com/pkg/errors"
)

const keyEscape = 27

// PromptDecider asks for a key and a label on a text terminal.
//
// A line starting with 'n' asks for a label, whose first whitespace-delimited
// token is used. 'q' or ESC terminates. Anything else, including an empty line,
// skips the frame. End of input terminates. A pending prompt returns as soon as
// the context is cancelled.
type PromptDecider struct {
	in      *bufio.Reader
	out     io.Writer
	answers chan answer
	start   sync.Once
}

type answer struct {
	line string
	err  error
}

// NewPromptDecider reads answers from in and writes prompts to out.
func NewPromptDecider(in io.Reader, out io.Writer) *PromptDecider {
	return &PromptDecider{in: bufio.NewReader(in), out: out, answers: make(chan answer)}
}

// Decide prints a summary of the frame and reads the user's key.
func (p *PromptDecider) Decide(ctx context.Context, frame util.Frame, result *FrameResult) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	fmt.Fprintf(p.out, "%s: %d region(s) kept. Press 'n' to label the current object, 'q' or ESC to exit: ",
		frame.Name, len(result.Kept))

	line, err := p.readLine(ctx)
	if err != nil {
		return p.endOfInput(err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Skip(), nil
	}
	return p.decideKey(ctx, int(line[0]))
}

// decideKey maps a pressed key to a decision, asking for a label on 'n'.
func (p *PromptDecider) decideKey(ctx context.Context, key int) (Decision, error) {
	switch key {
	case 'n', 'N':
		return p.readLabel(ctx)
	case 'q', 'Q', keyEscape:
		return Terminate(), nil
	default:
		return Skip(), nil
	}
}

func (p *PromptDecider) readLabel(ctx context.Context) (Decision, error) {
	for {
		fmt.Fprint(p.out, "Enter label for the current object: ")
		line, err := p.readLine(ctx)
		if fields := strings.Fields(line); len(fields) > 0 {
			return Accept(fields[0]), nil
		}
		if err != nil {
			return p.endOfInput(err)
		}
	}
}

// readLine waits for the next line or for ctx to end. A partial last line is
// returned without error; after that every call reports io.EOF.
func (p *PromptDecider) readLine(ctx context.Context) (string, error) {
	p.start.Do(func() { go p.scan() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a, ok := <-p.answers:
		if !ok {
			return "", io.EOF
		}
		return a.line, a.err
	}
}

// scan feeds answers one line at a time until the input fails.
func (p *PromptDecider) scan() {
	defer close(p.answers)
	for {
		line, err := p.in.ReadString('\n')
		switch {
		case err == nil:
			p.answers <- answer{line: line}
		case errors.Is(err, io.EOF):
			if strings.TrimSpace(line) != "" {
				p.answers <- answer{line: line}
			}
			return
		default:
			p.answers <- answer{line: line, err: errors.Wrap(err, "failed to read answer")}
			return
		}
	}
}

func (p *PromptDecider) endOfInput(err error) (Decision, error) {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return Terminate(), nil
	}
	return Decision{}, err
}
