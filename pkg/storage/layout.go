package storage

import (
	"path/filepath"
	"regexp"
	"strings"

	"jirarecon/pkg/models"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Layout names the files of one company's run, relative to the base directory
type Layout struct {
	Company string
}

// NewLayout returns the layout for company
func NewLayout(company string) Layout {
	return Layout{Company: company}
}

func (l Layout) FiltersDir() string {
	return l.Company + "_filters"
}

func (l Layout) FilterRootFile() string {
	return filepath.Join(l.FiltersDir(), l.Company+".json")
}

func (l Layout) FilterItemsDir() string {
	return filepath.Join(l.FiltersDir(), "filter_names")
}

func (l Layout) FilterUsersFile() string {
	return filepath.Join(l.FiltersDir(), "usernames", "filter_usernames.json")
}

func (l Layout) DashboardDir() string {
	return l.Company + "_dashboard"
}

func (l Layout) DashboardRootFile() string {
	return filepath.Join(l.DashboardDir(), l.Company+".json")
}

func (l Layout) DashboardUsersFile() string {
	return filepath.Join(l.DashboardDir(), l.Company+"_users.json")
}

func (l Layout) DashboardItemsDir() string {
	return filepath.Join(l.DashboardDir(), "dashboard")
}

// RootFile returns where the root list of family is written
func (l Layout) RootFile(family models.Family) string {
	if family == models.FamilyDashboards {
		return l.DashboardRootFile()
	}
	return l.FilterRootFile()
}

// ItemsDir returns the directory holding family's sub-resources
func (l Layout) ItemsDir(family models.Family) string {
	if family == models.FamilyDashboards {
		return l.DashboardItemsDir()
	}
	return l.FilterItemsDir()
}

// UsersFile returns the user list written for family
func (l Layout) UsersFile(family models.Family) string {
	if family == models.FamilyDashboards {
		return l.DashboardUsersFile()
	}
	return l.FilterUsersFile()
}

// SanitizeName lower-cases name, collapses every run of characters outside
// [a-z0-9] into one underscore and trims underscores from both ends.
func SanitizeName(name string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(s, "_")
}

// ResourceFilename derives the file name of a sub-resource from its name,
// falling back to its numeric id when the name is absent or sanitises away.
func ResourceFilename(name, id string) string {
	base := SanitizeName(name)
	if base == "" {
		base = id
	}
	return base + ".json"
}
