// Package ui holds the terminal presentation of jirarecon: the banner and
// coloured print helpers, the interactive prompt and the family spinner.
//
// Colour is handled by fatih/color and switches itself off when stdout is
// not a terminal or NO_COLOR is set.
package ui
