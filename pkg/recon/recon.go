package recon

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jirarecon/internal/fetchpool"
	"jirarecon/pkg/atlassian"
	"jirarecon/pkg/collector"
	"jirarecon/pkg/config"
	"jirarecon/pkg/errors"
	"jirarecon/pkg/jsontree"
	"jirarecon/pkg/logger"
	"jirarecon/pkg/models"
	"jirarecon/pkg/storage"
)

// familyPlan describes how one family is fetched, scanned and written
type familyPlan struct {
	family   models.Family
	rootURL  string
	rootFile string
	itemsDir string
	users    string

	// scanRoot also extracts records from the root list itself
	scanRoot bool
	extract  func(*jsontree.Node) []models.UserRecord

	// rawUsers writes every extracted record instead of only the ones
	// this family got admitted
	rawUsers bool
}

// Recon runs the filter and dashboard pipelines for one company
type Recon struct {
	cfg       *config.Config
	company   string
	endpoints atlassian.Endpoints
	layout    storage.Layout
	fetcher   Fetcher
	store     Store
	collector *collector.Collector
	progress  Progress
	logger    logger.Logger
	runID     string
}

// New creates a Recon for company. Records from every family are fed into
// coll, which the caller reads once Run returns.
func New(
	cfg *config.Config,
	company string,
	fetcher Fetcher,
	store Store,
	coll *collector.Collector,
	log logger.Logger,
) *Recon {
	if log == nil {
		log = logger.GetLogger()
	}
	if coll == nil {
		coll = collector.New()
	}

	runID := uuid.NewString()
	endpoints := atlassian.NewEndpoints(cfg.Atlassian.BaseURLTemplate, company).
		WithPaths(cfg.Atlassian.FilterSearchPath, cfg.Atlassian.DashboardPath)

	return &Recon{
		cfg:       cfg,
		company:   company,
		endpoints: endpoints,
		layout:    storage.NewLayout(company),
		fetcher:   fetcher,
		store:     store,
		collector: coll,
		progress:  nopProgress{},
		logger: log.WithFields(map[string]interface{}{
			"run_id":  runID,
			"company": company,
		}),
		runID: runID,
	}
}

// SetProgress installs a progress observer
func (r *Recon) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	r.progress = p
}

// RunID identifies this run in log output
func (r *Recon) RunID() string {
	return r.runID
}

// Endpoints returns the root URLs the run fetches
func (r *Recon) Endpoints() atlassian.Endpoints {
	return r.endpoints
}

// Collector returns the collector records are admitted into
func (r *Recon) Collector() *collector.Collector {
	return r.collector
}

// Run processes the families selected by mode concurrently and waits for
// all of them. A failing family never cancels another. The returned error
// is non-nil only when ctx was cancelled.
func (r *Recon) Run(ctx context.Context, mode Mode) ([]*FamilyReport, error) {
	families := mode.Families()
	reports := make([]*FamilyReport, len(families))

	r.logger.InfoWithFields("recon started", map[string]interface{}{
		"mode":     mode.String(),
		"families": len(families),
	})

	// a plain Group: no derived context, so one family's outcome never
	// cancels the other
	var g errgroup.Group
	for i, family := range families {
		i, plan := i, r.plan(family)
		g.Go(func() error {
			reports[i] = r.runFamily(ctx, plan)
			return nil
		})
	}
	_ = g.Wait()

	return reports, ctx.Err()
}

// RunFilters runs only the filter family
func (r *Recon) RunFilters(ctx context.Context) *FamilyReport {
	return r.runFamily(ctx, r.plan(models.FamilyFilters))
}

// RunDashboards runs only the dashboard family
func (r *Recon) RunDashboards(ctx context.Context) *FamilyReport {
	return r.runFamily(ctx, r.plan(models.FamilyDashboards))
}

func (r *Recon) plan(family models.Family) familyPlan {
	p := familyPlan{
		family:   family,
		rootFile: r.layout.RootFile(family),
		itemsDir: r.layout.ItemsDir(family),
		users:    r.layout.UsersFile(family),
	}
	switch family {
	case models.FamilyDashboards:
		p.rootURL = r.endpoints.Dashboards()
		p.scanRoot = true
		p.extract = jsontree.UserRecords
		p.rawUsers = true
	default:
		p.rootURL = r.endpoints.FilterSearch()
		p.extract = jsontree.PermissionUsers
	}
	return p
}

// familyRun carries the mutable state of one family through its pipeline
type familyRun struct {
	plan    familyPlan
	report  *FamilyReport
	log     logger.Logger
	records []models.UserRecord

	// users deduplicates this family's records apart from other families
	users *collector.Collector
}

func (fr *familyRun) transition(s State) {
	fr.report.State = s
	logger.LogFamilyState(fr.log, string(fr.plan.family), s.String())
}

func (fr *familyRun) fail(url string, err error) {
	if errors.IsType(err, errors.ErrorTypeInterrupted) {
		fr.report.Interrupted = true
		return
	}
	fr.report.addFailure(url, err)
	logger.LogFetchFailure(fr.log, url, err)
}

func (r *Recon) runFamily(ctx context.Context, plan familyPlan) *FamilyReport {
	start := time.Now()
	fr := &familyRun{
		plan: plan,
		report: &FamilyReport{
			Family:  plan.family,
			State:   StateNotStarted,
			RootURL: plan.rootURL,
		},
		log:   r.logger.WithField("family", string(plan.family)),
		users: collector.New(),
	}

	r.progress.FamilyStarted(plan.family)
	defer func() {
		fr.report.Duration = time.Since(start)
		logger.LogFamilySummary(r.logger, string(plan.family), map[string]interface{}{
			"state":      fr.report.State.String(),
			"links":      fr.report.Links,
			"actionable": fr.report.Actionable,
			"saved":      fr.report.Saved,
			"failed":     fr.report.Failed,
			"records":    fr.report.Records,
			"admitted":   fr.report.Admitted,
			"duration":   fr.report.Duration,
		})
		r.progress.FamilyFinished(fr.report)
	}()

	fr.transition(StateRootFetching)
	root, body, err := fetchpool.FetchDocument(ctx, r.fetcher, plan.rootURL)
	if err != nil {
		fr.fail(plan.rootURL, err)
		fr.transition(StateRootFailed)
		return fr.report
	}

	if _, err := r.store.SaveDocument(plan.rootFile, body); err != nil {
		// the root is still usable for discovery
		fr.fail(plan.rootFile, err)
	}
	fr.transition(StateRootFetched)

	links := jsontree.SelfLinks(root)
	jobs := r.actionableJobs(plan, links)
	fr.report.Links = len(links)
	fr.report.Actionable = len(jobs)
	fr.transition(StateLinksDiscovered)

	if plan.scanRoot {
		fr.ingest(r.collector, plan.extract(root))
	}

	fr.transition(StateSubFetchesInFlight)
	r.fetchAll(ctx, fr, jobs)

	if ctx.Err() != nil {
		fr.report.Interrupted = true
		return fr.report
	}

	r.writeUsers(fr)
	fr.transition(StateFamilyComplete)
	return fr.report
}

// actionableJobs keeps links ending in a numeric id, each URL once
func (r *Recon) actionableJobs(plan familyPlan, links []string) []fetchpool.Job {
	seen := make(map[string]bool, len(links))
	var jobs []fetchpool.Job
	for _, link := range links {
		id, ok := atlassian.ResourceID(link)
		if !ok || seen[link] {
			continue
		}
		seen[link] = true
		jobs = append(jobs, fetchpool.Job{
			URL:    link,
			ID:     id,
			Dir:    plan.itemsDir,
			Family: plan.family,
		})
	}
	return jobs
}

// fetchAll fans jobs out over a worker pool and folds every result back in
// as it settles. It returns once each submitted job has produced a result.
func (r *Recon) fetchAll(ctx context.Context, fr *familyRun, jobs []fetchpool.Job) {
	if len(jobs) == 0 {
		return
	}

	pool := fetchpool.NewWorkerPool(ctx, r.cfg.Fetch.ConcurrentRequests, r.fetcher, r.store, fr.log)
	pool.Start()

	go func() {
		defer pool.Stop()
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()

	for result := range pool.Results() {
		if !result.Success {
			fr.fail(result.Job.URL, result.Err)
			continue
		}
		fr.report.Saved++
		fr.ingest(r.collector, fr.plan.extract(result.Doc))
	}
}

func (fr *familyRun) ingest(c *collector.Collector, records []models.UserRecord) {
	fr.records = append(fr.records, records...)
	fr.report.Records += len(records)

	fr.users.AdmitAll(records)
	fr.report.Admitted += len(c.AdmitAll(records))
}

func (r *Recon) writeUsers(fr *familyRun) {
	users := fr.users.Users()
	if fr.plan.rawUsers {
		users = fr.records
	}
	if users == nil {
		users = []models.UserRecord{}
	}

	if _, err := r.store.SaveJSON(fr.plan.users, users); err != nil {
		fr.fail(fr.plan.users, err)
	}
}
