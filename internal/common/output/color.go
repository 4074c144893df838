package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	// Working tree state colors
	Clean    = color.New(color.FgGreen)
	Dirty    = color.New(color.FgYellow)
	Detached = color.New(color.FgMagenta)
	Missing  = color.New(color.FgRed)

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header = color.New(color.FgWhite, color.Bold)
	Repo   = color.New(color.FgBlue, color.Bold)
	Ref    = color.New(color.FgCyan)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StateColor returns the color for a working tree state label
func StateColor(state string) *color.Color {
	switch state {
	case "clean":
		return Clean
	case "dirty":
		return Dirty
	case "detached":
		return Detached
	case "missing", "not a repository":
		return Missing
	default:
		return color.New(color.Reset)
	}
}

// FormatState formats a state label with its color
func FormatState(state string) string {
	return StateColor(state).Sprintf("[%s]", state)
}

// FormatDirty formats the clean/dirty state of a working tree
func FormatDirty(dirty bool) string {
	if dirty {
		return FormatState("dirty")
	}
	return FormatState("clean")
}

// FormatRef formats a branch or tag, showing the fallback dimmed when ref is empty
func FormatRef(ref, fallback string) string {
	if ref == "" {
		return Dim.Sprint(fallback)
	}
	return Ref.Sprint(ref)
}

// FormatRepo formats a repository name with its path dimmed
func FormatRepo(name, path string) string {
	if path == "" {
		return Repo.Sprint(name)
	}
	return Repo.Sprint(name) + " " + Dim.Sprint(path)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Printf("⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Printf("→ "+format+"\n", args...)
}

// Sprintf returns a colored string without printing
func Sprintf(c *color.Color, format string, args ...interface{}) string {
	return c.Sprintf(format, args...)
}
