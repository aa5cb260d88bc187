package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Printer writes human readable output for the CLI.
type Printer struct {
	out         io.Writer
	interactive bool
}

// NewPrinter creates a Printer writing to w. Spinners are only shown when w
// is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, interactive: IsTerminal(w)}
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Success prints a success message with a checkmark
func (p *Printer) Success(message string, args ...interface{}) {
	fmt.Fprintln(p.out, "✅ "+Success.Sprintf(message, args...))
}

// Error prints an error message with a cross
func (p *Printer) Error(message string, args ...interface{}) {
	fmt.Fprintln(p.out, "❌ "+Failure.Sprintf(message, args...))
}

// Warning prints a warning message
func (p *Printer) Warning(message string, args ...interface{}) {
	fmt.Fprintln(p.out, "⚠️ "+Warning.Sprintf(message, args...))
}

// Info prints an info message
func (p *Printer) Info(message string, args ...interface{}) {
	fmt.Fprintln(p.out, "ℹ️ "+Info.Sprintf(message, args...))
}

// Println prints an undecorated line.
func (p *Printer) Println(message string, args ...interface{}) {
	fmt.Fprintf(p.out, message+"\n", args...)
}

// Separator prints a horizontal line
func (p *Printer) Separator() {
	fmt.Fprintln(p.out, strings.Repeat("-", 80))
}

// Header prints a header with a separator
func (p *Printer) Header(title string) {
	fmt.Fprintln(p.out, "\n"+title)
	p.Separator()
}

// TableHeader prints a formatted table header
func (p *Printer) TableHeader(columns []string, widths []int) {
	p.TableRow(columns, widths)

	for _, width := range widths {
		fmt.Fprint(p.out, strings.Repeat("-", width))
	}
	fmt.Fprintln(p.out)
}

// TableRow prints a formatted table row
func (p *Printer) TableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(p.out, "%-*s", widths[i], val)
	}
	fmt.Fprintln(p.out)
}

// Progress runs fn while a spinner labelled with message is shown. The
// spinner is cleared before fn's caller prints anything else.
func (p *Printer) Progress(message string, fn func() error) error {
	if !p.interactive {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(p.out))
	s.Suffix = " " + message
	// Continue without a colored spinner if the color is rejected.
	_ = s.Color("cyan")

	s.Start()
	err := fn()
	s.Stop()
	return err
}
