package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

var errConfirmationRequired = appErrors.Clone(appErrors.ErrValidation, "confirmation required: rerun with --yes")

// prompt asks yes/no questions on a line-oriented reader.
type prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompt(in io.Reader, out io.Writer) *prompt {
	return &prompt{in: bufio.NewReader(in), out: out}
}

// Confirm accepts "y" or "yes" in any case; anything else, including EOF, declines.
func (p *prompt) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
