// Package pixabay resolves Pixabay image ids into download URLs.
//
// This package includes:
//   - A Client built on one shared resty HTTP client, used for both API
//     lookups and image downloads
//   - A Resolver that fans lookups out over a worker pool and never fails
//     on a single bad id
//   - Helpers for building and redacting API URLs
//
// Example usage:
//
//	client := pixabay.NewClient(pixabay.Options{Timeout: 30 * time.Second}, log)
//	resolver := pixabay.NewResolver(client, apiKey, 0, log)
//
//	records, err := resolver.ResolveAll(ctx, ids)
//	if err != nil {
//	    return err
//	}
//	for _, r := range records {
//	    fmt.Println(r.ID, r.URLString())
//	}
package pixabay
