package models

// Family names one of the independently processed resource categories
type Family string

const (
	FamilyFilters    Family = "filters"
	FamilyDashboards Family = "dashboards"
)

// String returns the display name used in progress lines and reports
func (f Family) String() string {
	switch f {
	case FamilyFilters:
		return "Filters"
	case FamilyDashboards:
		return "Dashboards"
	default:
		return string(f)
	}
}

// UserRecord is a user-shaped object found inside an API response
type UserRecord struct {
	DisplayName string `json:"displayName"`
	Active      bool   `json:"active"`
	AccountID   string `json:"accountId"`
}
