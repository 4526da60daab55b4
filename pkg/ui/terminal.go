package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ASCIILogo is printed when an interactive run starts
const ASCIILogo = `
     ╔═══════════════════════════════════════════════════════╗
     ║      ██╗██╗██████╗  █████╗     ██████╗ ███████╗ ██████╗ ║
     ║      ██║██║██╔══██╗██╔══██╗    ██╔══██╗██╔════╝██╔════╝ ║
     ║      ██║██║██████╔╝███████║    ██████╔╝█████╗  ██║      ║
     ║ ██   ██║██║██╔══██╗██╔══██║    ██╔══██╗██╔══╝  ██║      ║
     ║ ╚█████╔╝██║██║  ██║██║  ██║    ██║  ██║███████╗╚██████╗ ║
     ║  ╚════╝ ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝    ╚═╝  ╚═╝╚══════╝ ╚═════╝ ║
     ║      PUBLIC FILTER & DASHBOARD ENUMERATION FOR JIRA      ║
     ╚═══════════════════════════════════════════════════════╝
`

// Out receives everything the print helpers write
var Out io.Writer = color.Output

var (
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

// DisableColor turns colour off for every writer in the process
func DisableColor() {
	color.NoColor = true
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	fmt.Fprint(Out, Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(Out, Red(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Out, Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	fmt.Fprintf(Out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string) {
	fmt.Fprintln(Out, Yellow(msg))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(Out, Magenta(msg))
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of f, or fallback when f is not a
// terminal or its size cannot be read.
func TerminalWidth(f *os.File, fallback int) int {
	if !IsTerminal(f) {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
