// Package atlassian provides the HTTP transport and URL helpers for talking
// to a Jira Cloud site.
//
// The Client exposes a single capability, Fetch, which returns the status and
// body of a GET request. It never retries and sends no credentials: only
// resources shared publicly are reachable.
//
// Endpoints builds the two root URLs of a site:
//
//	e := atlassian.NewEndpoints(atlassian.DefaultBaseURLTemplate, "acme")
//	e.FilterSearch() // https://acme.atlassian.net/rest/api/2/filter/search
//	e.Dashboards()   // https://acme.atlassian.net/rest/api/3/dashboard
//
// ResourceID decides whether a discovered self link names an individual
// resource, which is the case when its last path segment is numeric.
package atlassian
