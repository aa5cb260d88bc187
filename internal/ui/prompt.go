package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers to interactive prompts one line at a time.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	tty    *os.File
}

// NewPrompter creates a Prompter reading from in and writing prompts to out.
// Secret prompts hide the typed text only when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{reader: bufio.NewReader(in), out: out}
	if IsTerminal(in) {
		p.tty = in.(*os.File)
	}
	return p
}

// Ask prints prompt and returns the answer with surrounding whitespace
// removed. It returns io.EOF once the input is exhausted.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// AskSecret behaves like Ask but does not echo the answer on a terminal.
func (p *Prompter) AskSecret(prompt string) (string, error) {
	if p.tty == nil {
		return p.Ask(prompt)
	}

	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(int(p.tty.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

// Confirm asks a yes/no question. Only "yes" counts as agreement.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Ask(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "yes"), nil
}
