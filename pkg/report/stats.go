package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"jirarecon/pkg/errors"
	"jirarecon/pkg/logger"
	"jirarecon/pkg/models"
	"jirarecon/pkg/storage"
)

// Stats are counts read back from a finished run's output directory
type Stats struct {
	Company        string
	FilterFiles    int
	DashboardFiles int
	FilterUsers    int
	DashboardUsers int
	Diagnostics    []string
}

// Counter is the part of the storage manager statistics need
type Counter interface {
	CountFiles(relDir, ext string) (int, error)
	Path(rel string) string
}

// CountResourceFiles counts the .json files in relDir. A missing or
// unreadable directory counts as zero and yields a diagnostic.
func CountResourceFiles(store Counter, relDir string) (int, string) {
	n, err := store.CountFiles(relDir, ".json")
	if err != nil {
		return 0, fmt.Sprintf("no resource files in %s: %s", store.Path(relDir), errors.Reason(err))
	}
	return n, ""
}

// CountUserEntries counts the records in a saved user list. A missing or
// malformed file counts as zero and yields a diagnostic.
func CountUserEntries(path string) (int, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Sprintf("no user list at %s", path)
		}
		return 0, fmt.Sprintf("cannot read user list %s: %v", path, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Sprintf("user list %s is not a JSON array: %v", path, err)
	}
	return len(entries), ""
}

// CollectStats reads the counts for company from store. Every diagnostic is
// also logged as a warning.
func CollectStats(store Counter, company string, log logger.Logger) Stats {
	if log == nil {
		log = logger.GetLogger()
	}
	layout := storage.NewLayout(company)
	stats := Stats{Company: company}

	note := func(n int, diag string) int {
		if diag != "" {
			stats.Diagnostics = append(stats.Diagnostics, diag)
			log.WarnWithFields("statistics incomplete", map[string]interface{}{
				"company": company,
				"reason":  diag,
			})
		}
		return n
	}

	filters, dashboards := models.FamilyFilters, models.FamilyDashboards
	stats.FilterFiles = note(CountResourceFiles(store, layout.ItemsDir(filters)))
	stats.DashboardFiles = note(CountResourceFiles(store, layout.ItemsDir(dashboards)))
	stats.FilterUsers = note(CountUserEntries(store.Path(layout.UsersFile(filters))))
	stats.DashboardUsers = note(CountUserEntries(store.Path(layout.UsersFile(dashboards))))

	return stats
}

// RenderStats prints the statistics block
func RenderStats(w io.Writer, s Stats) {
	fmt.Fprintf(w, "Statistics for %s\n", s.Company)
	fmt.Fprintf(w, "  Filter files:        %d\n", s.FilterFiles)
	fmt.Fprintf(w, "  Dashboard files:     %d\n", s.DashboardFiles)
	fmt.Fprintf(w, "  Filter users:        %d\n", s.FilterUsers)
	fmt.Fprintf(w, "  Dashboard users:     %d\n", s.DashboardUsers)
	for _, d := range s.Diagnostics {
		fmt.Fprintf(w, "  %s\n", warnColor.Sprint(d))
	}
}
