package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pixabaydl/pkg/config"
	"pixabaydl/pkg/errors"
	"pixabaydl/pkg/fetcher"
	"pixabaydl/pkg/idlist"
	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/models"
	"pixabaydl/pkg/pixabay"
	"pixabaydl/pkg/ui"
	"pixabaydl/pkg/urlcache"
)

// Summary describes what a run did
type Summary struct {
	// RunID tags every log line written during the run
	RunID string

	// QueriedAPI is true when the url cache was (re)built during this run
	QueriedAPI bool

	IDs        int
	Resolved   int
	Unresolved int

	QueryElapsed    time.Duration
	DownloadElapsed time.Duration

	Fetch fetcher.Result
}

// Runner orchestrates the resolve and download phases
type Runner struct {
	runID   string
	cfg     *config.Config
	client  *pixabay.Client
	cache   *urlcache.Manager
	printer *ui.Printer
	logger  logger.Logger
}

// New creates a runner from a validated configuration
func New(cfg *config.Config, printer *ui.Printer, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	if printer == nil {
		printer = ui.Default()
	}

	runID := uuid.NewString()
	log = log.WithField("run_id", runID)

	client := pixabay.NewClient(pixabay.Options{
		BaseURL:   cfg.Pixabay.APIURL,
		UserAgent: cfg.Pixabay.UserAgent,
		Timeout:   cfg.Download.Timeout,
	}, log)

	return &Runner{
		runID:   runID,
		cfg:     cfg,
		client:  client,
		cache:   urlcache.NewManager(cfg.Files.ImageURLsFilepath, log),
		printer: printer,
		logger:  log.WithField("component", "pipeline"),
	}
}

// NeedsResolve reports whether the url cache has to be built from the API
func (r *Runner) NeedsResolve() bool {
	return r.cfg.Download.UpdateImageURLs || !r.cache.Exists()
}

// Run resolves image urls if needed, then downloads every resolved image.
// It fails before any network call when resolution is needed but no API key
// is configured.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: r.runID}

	if r.NeedsResolve() {
		if r.cfg.Pixabay.APIKey == "" {
			return nil, errors.ErrMissingAPIKey
		}
		if err := r.resolvePhase(ctx, summary); err != nil {
			return summary, err
		}
	}

	if err := r.downloadPhase(ctx, summary); err != nil {
		return summary, err
	}

	return summary, nil
}

func (r *Runner) resolvePhase(ctx context.Context, summary *Summary) error {
	summary.QueriedAPI = true

	r.printer.Step("Reading image ids...")
	ids, err := idlist.ReadFile(r.cfg.Files.ImageIDsFilepath)
	if err != nil {
		return err
	}
	summary.IDs = len(ids)

	r.printer.Step("Retrieving image urls...")
	r.logger.InfoWithFields("Retrieving image urls", map[string]interface{}{
		"ids":     len(ids),
		"api_url": r.client.BaseURL(),
		"api_key": pixabay.MaskKey(r.cfg.Pixabay.APIKey),
	})

	tracker := ui.NewPhaseTracker("query", len(ids), r.printer)
	resolver := pixabay.NewResolver(r.client, r.cfg.Pixabay.APIKey, r.cfg.Download.Concurrency, r.logger)
	resolver.OnResolved = func(rec models.Record) { tracker.Record(rec.Resolved) }

	start := time.Now()
	records, err := resolver.ResolveAll(ctx, ids)
	summary.QueryElapsed = time.Since(start)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.Resolved {
			summary.Resolved++
		} else {
			summary.Unresolved++
		}
	}

	r.printer.Elapsed("Query", summary.QueryElapsed)
	logger.LogPhase(r.logger, "query", summary.QueryElapsed, map[string]interface{}{
		"resolved":   summary.Resolved,
		"unresolved": summary.Unresolved,
	})

	r.printer.Step("Saving image urls...")
	if err := r.cache.Save(records, urlcache.SaveOptions{}); err != nil {
		return fmt.Errorf("failed to save image urls: %w", err)
	}

	return nil
}

func (r *Runner) downloadPhase(ctx context.Context, summary *Summary) error {
	r.printer.Step("Reading image urls...")
	records, err := r.cache.Load()
	if err != nil {
		return err
	}

	resolved := 0
	for _, rec := range records {
		if rec.Resolved {
			resolved++
		}
	}

	r.printer.Step("Downloading images...")
	tracker := ui.NewPhaseTracker("download", resolved, r.printer)
	f := fetcher.New(r.client, fetcher.Options{
		DownloadDir:  r.cfg.Files.DownloadDir,
		Concurrency:  r.cfg.Download.Concurrency,
		SkipExisting: r.cfg.Download.SkipExisting,
	}, r.logger)
	f.OnFetched = func(_ models.Record, o fetcher.Outcome) { tracker.Record(o != fetcher.Failed) }

	start := time.Now()
	result, err := f.FetchAll(ctx, records)
	summary.DownloadElapsed = time.Since(start)
	summary.Fetch = result
	if err != nil {
		return err
	}

	r.printer.Elapsed("Download", summary.DownloadElapsed)
	logger.LogPhase(r.logger, "download", summary.DownloadElapsed, map[string]interface{}{
		"downloaded": result.Downloaded,
		"failed":     result.Failed,
		"skipped":    result.Skipped,
		"unresolved": result.Unresolved,
	})

	return nil
}
