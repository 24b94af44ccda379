// Package httputil provides the HTTP plumbing shared by remote fetchers.
//
//   - [Cache]: namespaced response-body cache over any [cache.Cache] backend
//   - [Retry]: retry with exponential backoff for [RetryableError] failures
//
// Usage:
//
//	bodies := httputil.NewCache(backend, keyer, time.Hour).Namespace("schedule")
//	if body, ok := bodies.Get(ctx, url); ok {
//	    return body, nil
//	}
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    body, err = fetch(ctx, url)
//	    return err
//	})
//
// Transient failures (network errors, 5xx, 429) should be wrapped in
// [RetryableError] by the caller; anything else fails immediately.
package httputil
