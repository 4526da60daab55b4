package recon

import (
	"fmt"
	"strings"
	"time"

	"jirarecon/pkg/errors"
	"jirarecon/pkg/models"
)

// Mode selects which families a run processes
type Mode int

const (
	ModeFilters Mode = iota + 1
	ModeDashboards
	ModeBoth
)

// ParseMode reads the operator's menu choice. An empty answer means both.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "f", "filters":
		return ModeFilters, nil
	case "2", "d", "dashboards":
		return ModeDashboards, nil
	case "3", "b", "both", "":
		return ModeBoth, nil
	default:
		return 0, fmt.Errorf("invalid choice %q: expected 1, 2 or 3", s)
	}
}

// Families lists the families a mode covers, filters first
func (m Mode) Families() []models.Family {
	switch m {
	case ModeFilters:
		return []models.Family{models.FamilyFilters}
	case ModeDashboards:
		return []models.Family{models.FamilyDashboards}
	case ModeBoth:
		return []models.Family{models.FamilyFilters, models.FamilyDashboards}
	default:
		return nil
	}
}

func (m Mode) String() string {
	switch m {
	case ModeFilters:
		return "filters"
	case ModeDashboards:
		return "dashboards"
	case ModeBoth:
		return "both"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is a family's position in its pipeline. RootFailed and
// FamilyComplete are terminal.
type State int

const (
	StateNotStarted State = iota
	StateRootFetching
	StateRootFailed
	StateRootFetched
	StateLinksDiscovered
	StateSubFetchesInFlight
	StateFamilyComplete
)

var stateNames = [...]string{
	StateNotStarted:         "NotStarted",
	StateRootFetching:       "RootFetching",
	StateRootFailed:         "RootFailed",
	StateRootFetched:        "RootFetched",
	StateLinksDiscovered:    "LinksDiscovered",
	StateSubFetchesInFlight: "SubFetchesInFlight",
	StateFamilyComplete:     "FamilyComplete",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == StateRootFailed || s == StateFamilyComplete
}

// Failure is one abandoned unit of work
type Failure struct {
	URL    string
	Type   errors.ErrorType
	Reason string
}

// FamilyReport summarises one family's run
type FamilyReport struct {
	Family  models.Family
	State   State
	RootURL string

	// Links counts every self link found in the root response,
	// Actionable those naming an individual resource.
	Links      int
	Actionable int

	Saved    int
	Failed   int
	Failures []Failure

	// Records counts user records extracted before de-duplication,
	// Admitted those the collector accepted.
	Records  int
	Admitted int

	Interrupted bool
	Duration    time.Duration
}

// Complete reports whether the family reached FamilyComplete
func (r *FamilyReport) Complete() bool {
	return r.State == StateFamilyComplete
}

func (r *FamilyReport) addFailure(url string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{
		URL:    url,
		Type:   errors.TypeOf(err),
		Reason: errors.Reason(err),
	})
}
