package recon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jirarecon/pkg/atlassian"
	"jirarecon/pkg/collector"
	"jirarecon/pkg/config"
	"jirarecon/pkg/errors"
	"jirarecon/pkg/logger"
	"jirarecon/pkg/models"
	"jirarecon/pkg/storage"
)

// mockJira serves canned bodies by path; unknown paths are 404.
// Bodies may reference the server with the {{base}} placeholder.
type mockJira struct {
	server *httptest.Server
	mu     sync.Mutex
	routes map[string]route
	hits   map[string]int
}

type route struct {
	status int
	body   string
}

func newMockJira(t *testing.T) *mockJira {
	m := &mockJira{routes: make(map[string]route), hits: make(map[string]int)}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.hits[r.URL.Path]++
		rt, ok := m.routes[r.URL.Path]
		m.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errorMessages":["The requested filter doesn't exist."]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		w.Write([]byte(rt.body))
	}))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockJira) handle(path string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[path] = route{status: status, body: body}
}

func (m *mockJira) url(path string) string {
	return m.server.URL + path
}

func (m *mockJira) hitCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[path]
}

type fixture struct {
	jira      *mockJira
	outDir    string
	store     *storage.Manager
	collector *collector.Collector
	log       *logger.TestLogger
	recon     *Recon
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	jira := newMockJira(t)

	cfg := config.DefaultConfig()
	cfg.Atlassian.BaseURLTemplate = jira.server.URL
	cfg.Fetch.ConcurrentRequests = 3

	outDir := t.TempDir()
	store, err := storage.NewManager(outDir)
	require.NoError(t, err)

	log := logger.NewTestLogger()
	coll := collector.New()
	client := atlassian.NewClient(5*time.Second, log)

	return &fixture{
		jira:      jira,
		outDir:    outDir,
		store:     store,
		collector: coll,
		log:       log,
		recon:     New(cfg, "acme", client, store, coll, log),
	}
}

func (f *fixture) readUsers(t *testing.T, rel string) []models.UserRecord {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.outDir, rel))
	require.NoError(t, err)
	var users []models.UserRecord
	require.NoError(t, json.Unmarshal(data, &users))
	return users
}

func user(name, account string) string {
	return fmt.Sprintf(`{"displayName":%q,"active":true,"accountId":%q}`, name, account)
}

func TestFilterFamilyEndToEnd(t *testing.T) {
	f := newFixture(t)

	f.jira.handle("/rest/api/2/filter/search", 200, fmt.Sprintf(`{
		"maxResults": 50,
		"values": [
			{"self": %q, "id": "100"},
			{"self": %q, "id": "101"},
			{"self": %q, "id": "102"}
		]
	}`, f.jira.url("/rest/api/2/filter/100"), f.jira.url("/rest/api/2/filter/101"), f.jira.url("/rest/api/2/filter/102")))

	f.jira.handle("/rest/api/2/filter/102", 200, fmt.Sprintf(`{
		"id": "102",
		"name": "My Filter!! 2024",
		"owner": %s,
		"editPermissions": [
			{"type": "user", "user": %s},
			{"type": "user", "user": %s},
			{"type": "project"}
		]
	}`, user("Owner", "owner-1"), user("Alice", "acc-alice"), user("Someone Else", "acc-known")))

	// admitted earlier in the run
	require.True(t, f.collector.Admit(models.UserRecord{DisplayName: "Known", Active: true, AccountID: "acc-known"}))

	report := f.recon.RunFilters(context.Background())

	assert.Equal(t, StateFamilyComplete, report.State)
	assert.True(t, report.Complete())
	assert.False(t, report.Interrupted)
	assert.Equal(t, 3, report.Links)
	assert.Equal(t, 3, report.Actionable)
	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 1, report.Admitted)

	for _, failure := range report.Failures {
		assert.Equal(t, errors.ErrorTypeStatus, failure.Type)
		assert.Equal(t, "unexpected status 404", failure.Reason)
	}

	failures := f.log.GetMessagesByLevel("ERROR")
	require.Len(t, failures, 2)
	var failedURLs []string
	for _, msg := range failures {
		assert.Equal(t, "resource skipped", msg.Message)
		failedURLs = append(failedURLs, msg.Fields["url"].(string))
	}
	assert.ElementsMatch(t, []string{
		f.jira.url("/rest/api/2/filter/100"),
		f.jira.url("/rest/api/2/filter/101"),
	}, failedURLs)

	items, err := os.ReadDir(filepath.Join(f.outDir, "acme_filters", "filter_names"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "my_filter_2024.json", items[0].Name())

	_, err = os.Stat(filepath.Join(f.outDir, "acme_filters", "acme.json"))
	assert.NoError(t, err)

	// the users file lists what the filters granted, including users the
	// run had already seen elsewhere
	users := f.readUsers(t, filepath.Join("acme_filters", "usernames", "filter_usernames.json"))
	assert.Equal(t, []models.UserRecord{
		{DisplayName: "Alice", Active: true, AccountID: "acc-alice"},
		{DisplayName: "Someone Else", Active: true, AccountID: "acc-known"},
	}, users)
	assert.Equal(t, 2, f.collector.Len())
}

func TestFilterFamilySkipsNonNumericLinks(t *testing.T) {
	f := newFixture(t)

	f.jira.handle("/rest/api/2/filter/search", 200, fmt.Sprintf(`{
		"self": %q,
		"values": [
			{"self": %q, "owner": {"self": %q}},
			{"self": %q}
		]
	}`,
		f.jira.url("/rest/api/2/filter/search"),
		f.jira.url("/rest/api/2/filter/7"),
		f.jira.url("/rest/api/2/user?accountId=abc"),
		f.jira.url("/rest/api/2/filter/7"),
	))
	f.jira.handle("/rest/api/2/filter/7", 200, `{"id":"7"}`)

	report := f.recon.RunFilters(context.Background())

	assert.Equal(t, StateFamilyComplete, report.State)
	assert.Equal(t, 4, report.Links)
	assert.Equal(t, 1, report.Actionable)
	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, f.jira.hitCount("/rest/api/2/filter/search"))
	assert.Equal(t, 1, f.jira.hitCount("/rest/api/2/filter/7"))

	_, err := os.Stat(filepath.Join(f.outDir, "acme_filters", "filter_names", "7.json"))
	assert.NoError(t, err)

	// nothing admitted still produces the file
	users := f.readUsers(t, filepath.Join("acme_filters", "usernames", "filter_usernames.json"))
	assert.Empty(t, users)
}

func TestDashboardFamilyWritesRawRecords(t *testing.T) {
	f := newFixture(t)

	f.jira.handle("/rest/api/3/dashboard", 200, fmt.Sprintf(`{
		"dashboards": [
			{"id": "10000", "self": %q, "owner": %s},
			{"id": "10001", "self": %q, "owner": %s}
		]
	}`,
		f.jira.url("/rest/api/3/dashboard/10000"), user("Alice", "a-1"),
		f.jira.url("/rest/api/3/dashboard/10001"), user("Alice", "a-1"),
	))
	f.jira.handle("/rest/api/3/dashboard/10000", 200, fmt.Sprintf(`{
		"id": "10000",
		"name": "Team Board",
		"owner": %s,
		"sharePermissions": [{"type": "user", "user": %s}]
	}`, user("Bob", "b-1"), user("Bob Again", "b-1")))
	f.jira.handle("/rest/api/3/dashboard/10001", 500, `{}`)

	report := f.recon.RunDashboards(context.Background())

	assert.Equal(t, StateFamilyComplete, report.State)
	assert.Equal(t, 2, report.Actionable)
	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 2, report.Admitted)

	raw := f.readUsers(t, filepath.Join("acme_dashboard", "acme_users.json"))
	assert.Len(t, raw, 4)

	_, err := os.Stat(filepath.Join(f.outDir, "acme_dashboard", "dashboard", "team_board.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(f.outDir, "acme_dashboard", "acme.json"))
	assert.NoError(t, err)

	users := f.collector.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].DisplayName)
	assert.Equal(t, "Bob", users[1].DisplayName)
}

func TestSharedUserAppearsInBothFamilyFiles(t *testing.T) {
	f := newFixture(t)

	f.jira.handle("/rest/api/2/filter/search", 200, fmt.Sprintf(`{"values": [{"self": %q}]}`,
		f.jira.url("/rest/api/2/filter/10")))
	f.jira.handle("/rest/api/2/filter/10", 200, fmt.Sprintf(`{
		"id": "10",
		"name": "Open Bugs",
		"editPermissions": [{"type": "user", "user": %s}, {"type": "user", "user": %s}]
	}`, user("Alice", "acc-1"), user("Alice", "acc-1")))
	f.jira.handle("/rest/api/3/dashboard", 200, fmt.Sprintf(`{"dashboards": [{"id": "1", "owner": %s}]}`,
		user("Alice", "acc-1")))

	reports, err := f.recon.Run(context.Background(), ModeBoth)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	filters, dashboards := reports[0], reports[1]

	assert.Equal(t, StateFamilyComplete, filters.State)
	assert.Equal(t, StateFamilyComplete, dashboards.State)
	assert.Equal(t, 2, filters.Records)
	assert.Equal(t, 1, dashboards.Records)
	assert.Equal(t, 1, filters.Admitted+dashboards.Admitted)

	alice := models.UserRecord{DisplayName: "Alice", Active: true, AccountID: "acc-1"}
	assert.Equal(t, []models.UserRecord{alice},
		f.readUsers(t, filepath.Join("acme_filters", "usernames", "filter_usernames.json")))
	assert.Equal(t, []models.UserRecord{alice},
		f.readUsers(t, filepath.Join("acme_dashboard", "acme_users.json")))
	assert.Equal(t, []models.UserRecord{alice}, f.collector.Users())
}

func TestRootFailureDoesNotStopOtherFamily(t *testing.T) {
	f := newFixture(t)

	f.jira.handle("/rest/api/2/filter/search", 503, `down`)
	f.jira.handle("/rest/api/3/dashboard", 200, `{"dashboards": []}`)

	var progress recordingProgress
	f.recon.SetProgress(&progress)

	reports, err := f.recon.Run(context.Background(), ModeBoth)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	filters, dashboards := reports[0], reports[1]
	assert.Equal(t, models.FamilyFilters, filters.Family)
	assert.Equal(t, StateRootFailed, filters.State)
	assert.True(t, filters.State.Terminal())
	require.Len(t, filters.Failures, 1)
	assert.Equal(t, f.jira.url("/rest/api/2/filter/search"), filters.Failures[0].URL)

	assert.Equal(t, models.FamilyDashboards, dashboards.Family)
	assert.Equal(t, StateFamilyComplete, dashboards.State)

	_, err = os.Stat(filepath.Join(f.outDir, "acme_filters"))
	assert.True(t, os.IsNotExist(err))

	assert.ElementsMatch(t, []models.Family{models.FamilyFilters, models.FamilyDashboards}, progress.started())
	assert.Len(t, progress.finished(), 2)
}

func TestMalformedRootFailsFamily(t *testing.T) {
	f := newFixture(t)
	f.jira.handle("/rest/api/2/filter/search", 200, `<html>login</html>`)

	report := f.recon.RunFilters(context.Background())

	assert.Equal(t, StateRootFailed, report.State)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, errors.ErrorTypeMalformed, report.Failures[0].Type)
}

func TestRunModes(t *testing.T) {
	f := newFixture(t)
	f.jira.handle("/rest/api/3/dashboard", 200, `{"dashboards": []}`)

	reports, err := f.recon.Run(context.Background(), ModeDashboards)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, models.FamilyDashboards, reports[0].Family)
	assert.Equal(t, 0, f.jira.hitCount("/rest/api/2/filter/search"))

	users := f.readUsers(t, filepath.Join("acme_dashboard", "acme_users.json"))
	assert.Empty(t, users)
}

func TestRunInterrupted(t *testing.T) {
	f := newFixture(t)
	f.jira.handle("/rest/api/2/filter/search", 200, `{"values": []}`)
	f.jira.handle("/rest/api/3/dashboard", 200, `{"dashboards": []}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := f.recon.Run(ctx, ModeBoth)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, reports, 2)
	for _, report := range reports {
		assert.True(t, report.Interrupted)
		assert.False(t, report.Complete())
		assert.Empty(t, report.Failures)
	}
	assert.False(t, f.log.HasError())
}

func TestNewAssignsRunID(t *testing.T) {
	cfg := config.DefaultConfig()
	a := New(cfg, "acme", nil, nil, nil, logger.NewNopLogger())
	b := New(cfg, "acme", nil, nil, nil, logger.NewNopLogger())

	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
	assert.NotNil(t, a.Collector())
	assert.Equal(t, "https://acme.atlassian.net/rest/api/2/filter/search", a.Endpoints().FilterSearch())
}

type recordingProgress struct {
	mu    sync.Mutex
	start []models.Family
	done  []*FamilyReport
}

func (p *recordingProgress) FamilyStarted(f models.Family) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = append(p.start, f)
}

func (p *recordingProgress) FamilyFinished(r *FamilyReport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = append(p.done, r)
}

func (p *recordingProgress) started() []models.Family {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Family(nil), p.start...)
}

func (p *recordingProgress) finished() []*FamilyReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*FamilyReport(nil), p.done...)
}
