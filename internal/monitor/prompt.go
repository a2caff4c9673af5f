package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsolePrompter asks questions on out and reads answers line by line
// from in.
type ConsolePrompter struct {
	out     io.Writer
	lines   chan lineResult
	in      *bufio.Reader
	reading bool
}

type lineResult struct {
	line string
	err  error
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		out:   out,
		lines: make(chan lineResult, 1),
		in:    bufio.NewReader(in),
	}
}

// Prompt returns the next line without its line ending. The read itself
// cannot be interrupted; after a cancellation the next Prompt picks up the
// line still being read.
func (p *ConsolePrompter) Prompt(ctx context.Context, question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}

	if !p.reading {
		p.reading = true
		go func() {
			line, err := p.in.ReadString('\n')
			if err == io.EOF && line != "" {
				err = nil
			}
			p.lines <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-p.lines:
		p.reading = false
		return r.line, r.err
	}
}
