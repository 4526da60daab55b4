package fetchpool

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"jirarecon/pkg/errors"
	"jirarecon/pkg/jsontree"
	"jirarecon/pkg/logger"
	"jirarecon/pkg/models"
	"jirarecon/pkg/storage"
)

// Job is one sub-resource to fetch and persist
type Job struct {
	URL    string
	ID     string
	Dir    string
	Family models.Family
}

// Result is the settled outcome of a Job
type Result struct {
	Job      Job
	Success  bool
	Err      error
	Doc      *jsontree.Node
	Path     string
	Status   int
	Duration time.Duration
	Size     int
}

// Fetcher issues a single GET and returns status and body
type Fetcher interface {
	Fetch(ctx context.Context, url string) (int, []byte, error)
}

// DocumentStore persists a raw JSON document under a relative path
type DocumentStore interface {
	SaveDocument(rel string, raw []byte) (string, error)
}

// WorkerPool runs fetch jobs on a fixed number of workers. Results are
// delivered on Results until Stop has drained every submitted job.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	stopOnce    sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     Fetcher
	store       DocumentStore
	logger      logger.Logger
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx abandons queued
// jobs and aborts in-flight requests.
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	fetcher Fetcher,
	store DocumentStore,
	log logger.Logger,
) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		store:       store,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue, waits for every worker and closes Results.
// It must be called once all jobs are submitted; extra calls are no-ops.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.jobQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.cancel()
		wp.logger.Debug("worker pool stopped")
	})
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return errors.NewInterrupted(job.URL, wp.ctx.Err())
	}
}

// Results returns the channel results are delivered on
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		var result Result
		if err := wp.ctx.Err(); err != nil {
			// drain so Stop never blocks, but report the job as abandoned
			result = Result{Job: job, Err: errors.NewInterrupted(job.URL, err)}
		} else {
			result = wp.processJob(job, id)
		}

		// results are always delivered; the consumer ranges until close
		wp.resultQueue <- result
	}
}

func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	doc, body, status, err := fetchDocument(wp.ctx, wp.fetcher, job.URL)
	result.Status = status
	result.Size = len(body)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Doc = doc

	name, _ := doc.Get("name").AsString()
	rel := filepath.Join(job.Dir, storage.ResourceFilename(name, job.ID))

	path, err := wp.store.SaveDocument(rel, body)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.Path = path
	result.Success = true
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("sub-resource saved", map[string]interface{}{
		"worker_id": workerID,
		"url":       job.URL,
		"path":      path,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}

// FetchDocument fetches url and parses the body, turning a non-2xx status
// or an unparseable body into a typed error. The raw body is returned
// alongside the tree so it can be persisted unchanged.
func FetchDocument(ctx context.Context, fetcher Fetcher, url string) (*jsontree.Node, []byte, error) {
	doc, body, _, err := fetchDocument(ctx, fetcher, url)
	return doc, body, err
}

func fetchDocument(ctx context.Context, fetcher Fetcher, url string) (*jsontree.Node, []byte, int, error) {
	status, body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, nil, status, err
	}
	if !errors.IsSuccessStatus(status) {
		return nil, nil, status, errors.NewStatus(url, status)
	}

	doc, err := jsontree.Parse(body)
	if err != nil {
		return nil, nil, status, errors.NewMalformed(url, err)
	}
	return doc, body, status, nil
}
