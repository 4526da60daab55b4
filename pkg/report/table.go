package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"jirarecon/pkg/models"
)

const (
	nameWidth      = 25
	activeWidth    = 8
	tableMargin    = 10
	minAccountWide = 12

	// DefaultWidth is used when the terminal width is unknown
	DefaultWidth = 100
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	activeYes   = color.New(color.FgGreen)
	activeNo    = color.New(color.FgRed)
)

// RenderUsers prints users as a three column table sized for a terminal of
// width columns. Values longer than their column end in "...".
func RenderUsers(w io.Writer, users []models.UserRecord, width int) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	if width <= 0 {
		width = DefaultWidth
	}

	accountWidth := width - nameWidth - activeWidth - tableMargin
	if accountWidth < minAccountWide {
		accountWidth = minAccountWide
	}

	header := fmt.Sprintf("%-*s %-*s %s", nameWidth, "Display Name", activeWidth, "Active", "Account ID")
	fmt.Fprintln(w, headerColor.Sprint(header))
	fmt.Fprintln(w, strings.Repeat("-", nameWidth+activeWidth+accountWidth+2))

	for _, u := range users {
		active := activeNo.Sprintf("%-*s", activeWidth, "No")
		if u.Active {
			active = activeYes.Sprintf("%-*s", activeWidth, "Yes")
		}
		fmt.Fprintf(w, "%-*s %s %s\n",
			nameWidth, Truncate(u.DisplayName, nameWidth),
			active,
			Truncate(u.AccountID, accountWidth),
		)
	}
}

// Truncate shortens s to at most n runes, ending in "..." when cut
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
