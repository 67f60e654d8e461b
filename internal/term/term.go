// Package term decides whether console output is colored and paints text
// with ANSI sequences. [Configure] runs once during startup; until then, and
// whenever colors are disabled, [Paint] returns its input unchanged.
package term

import (
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/tlbbweb/texconv/internal/config"
)

// Color is an ANSI SGR sequence.
type Color string

// Bright bold colors used for log levels and the banner.
const (
	Red     Color = "\033[1;91m"
	Green   Color = "\033[1;92m"
	Yellow  Color = "\033[1;93m"
	Blue    Color = "\033[1;94m"
	Magenta Color = "\033[1;95m"
	Cyan    Color = "\033[1;96m"

	reset = "\033[0m"
)

var enabled bool

// Configure enables or disables colors for stdout according to mode.
func Configure(mode config.ColorMode) {
	enabled = resolve(mode, os.Stdout)
}

// Enabled reports whether colors are active.
func Enabled() bool { return enabled }

// Paint wraps s in c and a reset when colors are enabled.
func Paint(c Color, s string) string {
	if !enabled || c == "" {
		return s
	}
	return string(c) + s + reset
}

// resolve applies mode to out. Auto mode colors only a terminal, and honors
// NO_COLOR (https://no-color.org) and TERM=dumb.
func resolve(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return IsTerminal(out) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && xterm.IsTerminal(int(f.Fd()))
}
