package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic coloring to a piece of text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

// noColor reports whether color output is disabled, either through NO_COLOR
// or because fatih/color detected a non-terminal output.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Success is used for completed operations and the final worker link.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Failure is used for diagnostics of failed remote calls.
	Failure = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats recoverable problems such as invalid menu input.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info formats neutral progress messages.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Title formats the menu banner.
	Title = Formatter{color.New(color.FgBlue, color.Bold), "", ""}

	// Highlight formats user supplied names. Quoted when color is off.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}
)
