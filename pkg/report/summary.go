package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"jirarecon/pkg/recon"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// RenderSummary prints one line per family followed by the number of
// distinct users collected across the run.
func RenderSummary(w io.Writer, reports []*recon.FamilyReport, totalUsers int) {
	for _, r := range reports {
		if r == nil {
			continue
		}
		fmt.Fprintf(w, "%-11s %s  %d links (%d actionable), %d saved, %d failed, %d records, %d new users in %s\n",
			r.Family.String()+":",
			status(r),
			r.Links, r.Actionable,
			r.Saved, r.Failed,
			r.Records, r.Admitted,
			r.Duration.Round(time.Millisecond),
		)
	}
	fmt.Fprintf(w, "Total unique users: %d\n", totalUsers)
}

func status(r *recon.FamilyReport) string {
	switch {
	case r.Interrupted:
		return warnColor.Sprint("interrupted")
	case r.State == recon.StateRootFailed:
		return failColor.Sprint("root failed")
	case r.Failed > 0:
		return warnColor.Sprint("complete with failures")
	case r.Complete():
		return okColor.Sprint("complete")
	default:
		return r.State.String()
	}
}
