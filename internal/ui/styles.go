package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary   = lipgloss.Color("#DB2777") // Pink
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Success   = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Secondary)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))
)

// Out receives every status line; commands that write CSS to stdout point it at stderr
var Out io.Writer = os.Stdout

// Banner returns the stylesmith banner
func Banner() string {
	banner := `
 ▄▀▀ ▀█▀ █ █ █   █▀▀ ▄▀▀ █▀▄▀█ ▀█▀ ▀█▀ █ █
 ▀▀█  █   █  █   █▀▀ ▀▀█ █ ▀ █  █   █  █▀█
 ▀▀   ▀   ▀  ▀▀▀ ▀▀▀ ▀▀  ▀   ▀ ▀▀▀  ▀  ▀ ▀`
	return TitleStyle.Render(banner)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintln(Out, InfoStyle.Render("• "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(Out, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintKeyValue prints a key-value pair
func PrintKeyValue(key, value string) {
	fmt.Fprintf(Out, "  %s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// Divider returns a divider line
func Divider() string {
	return MutedStyle.Render("─────────────────────────────────────────")
}

// VersionLine returns the styled version line
func VersionLine(version string) string {
	return ValueStyle.Render(" Version: " + version)
}

// PrintHeader prints the standard header
func PrintHeader(version string) {
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, Divider())
	fmt.Fprintln(Out, Banner())
	fmt.Fprintln(Out, VersionLine(version))
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, Divider())
	fmt.Fprintln(Out)
}
