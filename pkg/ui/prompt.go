package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompter asks questions on an interactive terminal
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes questions to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

type answer struct {
	text string
	err  error
}

// Ask prints question and returns the trimmed answer. It returns ctx's error
// as soon as ctx is done, even while the read is still blocked.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, Cyan(question))

	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		ch <- answer{text: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-ch:
		return a.text, a.err
	}
}

// AskUntil repeats question until parse accepts the answer. Rejections are
// printed and the question asked again.
func AskUntil[T any](ctx context.Context, p *Prompter, question string, parse func(string) (T, error)) (T, error) {
	for {
		text, err := p.Ask(ctx, question)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(text)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(p.out, Red(err.Error()))
	}
}

// Choice prints a numbered menu
func (p *Prompter) Choice(title string, options []string) {
	fmt.Fprintln(p.out, Magenta(title))
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %s %s\n", Yellow(fmt.Sprintf("%d)", i+1)), opt)
	}
}
