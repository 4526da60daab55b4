package atlassian

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

const (
	// DefaultBaseURLTemplate is formatted with the company subdomain
	DefaultBaseURLTemplate = "https://%s.atlassian.net"

	// FilterSearchPath lists the filters visible to an anonymous caller
	FilterSearchPath = "/rest/api/2/filter/search"

	// DashboardPath lists the dashboards visible to an anonymous caller
	DashboardPath = "/rest/api/3/dashboard"

	// MaxSubdomainLength is the DNS label limit
	MaxSubdomainLength = 63
)

var numericID = regexp.MustCompile(`^\d+$`)

// Endpoints holds the root URLs of one company's Jira site
type Endpoints struct {
	BaseURL          string
	FilterSearchPath string
	DashboardPath    string
}

// NewEndpoints builds the endpoints for company. A template without a %s
// verb is used verbatim as the base URL.
func NewEndpoints(template, company string) Endpoints {
	if template == "" {
		template = DefaultBaseURLTemplate
	}
	base := template
	if strings.Contains(template, "%s") {
		base = fmt.Sprintf(template, company)
	}
	return Endpoints{
		BaseURL:          strings.TrimRight(base, "/"),
		FilterSearchPath: FilterSearchPath,
		DashboardPath:    DashboardPath,
	}
}

// WithPaths overrides the REST paths, keeping defaults for empty values
func (e Endpoints) WithPaths(filterSearch, dashboards string) Endpoints {
	if filterSearch != "" {
		e.FilterSearchPath = filterSearch
	}
	if dashboards != "" {
		e.DashboardPath = dashboards
	}
	return e
}

// FilterSearch returns the root URL of the filter family
func (e Endpoints) FilterSearch() string {
	return e.BaseURL + e.FilterSearchPath
}

// Dashboards returns the root URL of the dashboard family
func (e Endpoints) Dashboards() string {
	return e.BaseURL + e.DashboardPath
}

// ResourceID returns the numeric identifier a link ends with. Links whose
// last path segment is not all digits are not resource endpoints.
func ResourceID(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return "", false
	}
	id := path.Base(p)
	if !numericID.MatchString(id) {
		return "", false
	}
	return id, true
}

// IsValidSubdomain checks that company can be used as a DNS label
func IsValidSubdomain(company string) bool {
	if company == "" || len(company) > MaxSubdomainLength {
		return false
	}
	if company[0] == '-' || company[len(company)-1] == '-' {
		return false
	}

	for _, char := range company {
		if !((char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '-') {
			return false
		}
	}

	return true
}

// SanitizeSubdomain turns operator input such as
// "https://Acme.atlassian.net/" into the bare subdomain "acme".
func SanitizeSubdomain(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, ".atlassian.net")
	return s
}
