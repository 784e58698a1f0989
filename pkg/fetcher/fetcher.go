package fetcher

import (
	"context"
	"fmt"
	"io"

	"pixabaydl/internal/workerpool"
	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/models"
	"pixabaydl/pkg/storage"
)

// ImageOpener starts an image download and hands back the unread body
type ImageOpener interface {
	OpenImage(ctx context.Context, imageURL string) (io.ReadCloser, error)
}

// Outcome is what happened to a single record
type Outcome int

const (
	Downloaded Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Downloaded:
		return "downloaded"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// Result counts the outcomes of a FetchAll call
type Result struct {
	Downloaded int
	Failed     int
	// Skipped counts files that already existed when SkipExisting is set
	Skipped int
	// Unresolved counts records without a URL; they never touch the network
	Unresolved int
}

// Options configures a Fetcher
type Options struct {
	DownloadDir  string
	Concurrency  int
	SkipExisting bool
}

// Fetcher downloads resolved images into the download directory
type Fetcher struct {
	client ImageOpener
	opts   Options
	logger logger.Logger

	// OnFetched, if set, is called once per resolved record after it finishes.
	// It may be called from several goroutines at once.
	OnFetched func(models.Record, Outcome)
}

// New creates a fetcher
func New(client ImageOpener, opts Options, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		client: client,
		opts:   opts,
		logger: log.WithField("component", "fetcher"),
	}
}

// FetchAll downloads every resolved record to {id}.jpg, creating the download
// directory first. Per-image failures are logged and counted, never returned.
func (f *Fetcher) FetchAll(ctx context.Context, records []models.Record) (Result, error) {
	var result Result

	store, err := storage.NewManager(f.opts.DownloadDir)
	if err != nil {
		return result, err
	}

	var jobs []models.Record
	for _, r := range records {
		if !r.Resolved {
			result.Unresolved++
			continue
		}
		jobs = append(jobs, r)
	}

	pool := workerpool.New("download", f.opts.Concurrency, func(ctx context.Context, r models.Record) Outcome {
		outcome := f.fetch(ctx, store, r)
		if f.OnFetched != nil {
			f.OnFetched(r, outcome)
		}
		return outcome
	}, f.logger)

	outcomes, err := pool.Run(ctx, jobs)
	if err != nil {
		return result, fmt.Errorf("downloading images interrupted: %w", err)
	}

	for _, o := range outcomes {
		switch o {
		case Downloaded:
			result.Downloaded++
		case Failed:
			result.Failed++
		case Skipped:
			result.Skipped++
		}
	}

	return result, nil
}

// Total returns the number of records the result accounts for
func (r Result) Total() int {
	return r.Downloaded + r.Failed + r.Skipped + r.Unresolved
}

func (f *Fetcher) fetch(ctx context.Context, store *storage.Manager, r models.Record) Outcome {
	if f.opts.SkipExisting && store.IsDownloaded(r.ID) {
		f.logger.WithField("image_id", int(r.ID)).Debug("Image already downloaded")
		return Skipped
	}

	body, err := f.client.OpenImage(ctx, r.URL)
	if err != nil {
		logger.LogDownload(f.logger, int(r.ID), r.URL, 0, err)
		return Failed
	}
	defer body.Close()

	size, err := store.SaveImage(body, r.ID)
	logger.LogDownload(f.logger, int(r.ID), r.URL, size, err)
	if err != nil {
		return Failed
	}
	return Downloaded
}
