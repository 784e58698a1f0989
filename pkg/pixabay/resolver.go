package pixabay

import (
	"context"
	"fmt"

	"pixabaydl/internal/workerpool"
	"pixabaydl/pkg/errors"
	"pixabaydl/pkg/logger"
	"pixabaydl/pkg/models"
)

// ImageLookup resolves a single image id against the API
type ImageLookup interface {
	LookupImage(ctx context.Context, apiKey string, id models.ImageID) (*models.Hit, error)
}

// Resolver turns image ids into download URLs
type Resolver struct {
	lookup      ImageLookup
	apiKey      string
	concurrency int
	logger      logger.Logger

	// OnResolved, if set, is called once per id as soon as its record is known.
	// It may be called from several goroutines at once.
	OnResolved func(models.Record)
}

// NewResolver creates a resolver. concurrency <= 0 issues every lookup at once.
func NewResolver(lookup ImageLookup, apiKey string, concurrency int, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{
		lookup:      lookup,
		apiKey:      apiKey,
		concurrency: concurrency,
		logger:      log.WithField("component", "resolver"),
	}
}

// Resolve looks up one id. It never fails: any problem is logged and yields
// an unresolved record.
func (r *Resolver) Resolve(ctx context.Context, id models.ImageID) models.Record {
	hit, err := r.lookup.LookupImage(ctx, r.apiKey, id)
	if err != nil {
		logger.LogResolve(r.logger, int(id), "", err)
		return models.Unresolved(id)
	}

	if models.ImageID(hit.ID) != id {
		err := errors.New(errors.ErrorTypeMismatch, 0, "requested image %d but API returned image %d", id, hit.ID)
		logger.LogResolve(r.logger, int(id), "", err)
		return models.Unresolved(id)
	}

	if hit.LargeImageURL == "" {
		err := errors.New(errors.ErrorTypeParsing, 0, "image %d has no largeImageURL", id)
		logger.LogResolve(r.logger, int(id), "", err)
		return models.Unresolved(id)
	}

	logger.LogResolve(r.logger, int(id), hit.LargeImageURL, nil)
	return models.Resolved(id, hit.LargeImageURL)
}

// ResolveAll resolves every id concurrently and returns exactly one record per
// id, in input order. A failed lookup never affects the others.
func (r *Resolver) ResolveAll(ctx context.Context, ids []models.ImageID) ([]models.Record, error) {
	if r.apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	pool := workerpool.New("resolve", r.concurrency, func(ctx context.Context, id models.ImageID) models.Record {
		record := r.Resolve(ctx, id)
		if r.OnResolved != nil {
			r.OnResolved(record)
		}
		return record
	}, r.logger)

	records, err := pool.Run(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving image urls interrupted: %w", err)
	}
	return records, nil
}
