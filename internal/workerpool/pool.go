package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pixabaydl/pkg/logger"
)

// ProcessFunc handles a single job. It reports failures through its result;
// a pool never aborts because one job went wrong.
type ProcessFunc[J, R any] func(ctx context.Context, job J) R

// Pool fans jobs out to a set of workers and collects results in input order
type Pool[J, R any] struct {
	name       string
	numWorkers int
	process    ProcessFunc[J, R]
	logger     logger.Logger
}

// indexedJob carries a job together with its position in the input
type indexedJob[J any] struct {
	index int
	job   J
}

// New creates a worker pool. numWorkers <= 0 starts one worker per job.
func New[J, R any](name string, numWorkers int, process ProcessFunc[J, R], log logger.Logger) *Pool[J, R] {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Pool[J, R]{
		name:       name,
		numWorkers: numWorkers,
		process:    process,
		logger:     log,
	}
}

// Workers returns the number of workers Run would start for n jobs
func (p *Pool[J, R]) Workers(n int) int {
	if p.numWorkers <= 0 || p.numWorkers > n {
		return n
	}
	return p.numWorkers
}

// Run processes every job and returns one result per job, at the job's index.
// If ctx is cancelled, jobs not yet started are left with a zero result and
// ctx's error is returned.
func (p *Pool[J, R]) Run(ctx context.Context, jobs []J) ([]R, error) {
	results := make([]R, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	numWorkers := p.Workers(len(jobs))
	p.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"pool":        p.name,
		"num_workers": numWorkers,
		"jobs":        len(jobs),
	})

	jobQueue := make(chan indexedJob[J], numWorkers)

	var g errgroup.Group
	g.Go(func() error {
		defer close(jobQueue)
		for i, job := range jobs {
			select {
			case jobQueue <- indexedJob[J]{index: i, job: job}:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for ij := range jobQueue {
				if ctx.Err() != nil {
					continue
				}
				// each index is written by exactly one worker
				results[ij.index] = p.process(ctx, ij.job)
			}
			return nil
		})
	}

	_ = g.Wait()

	p.logger.DebugWithFields("Worker pool finished", map[string]interface{}{
		"pool": p.name,
	})

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
