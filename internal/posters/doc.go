// Package posters provides an HTTP client for the posters wallpaper backend.
//
// # Endpoints
//
//   - GET /getWallpapers?page=N: one page of wallpapers as a JSON array. An empty
//     array means the collection has no more pages.
//   - GET /getWallpaper/{id}: a single wallpaper object, used to resolve deep links.
//     Unknown IDs answer 404 and surface as ErrNotFound.
//
// # Request Handling
//
// Every request:
//   - waits on a token-bucket limiter when RequestsPerSecond is set
//   - carries Accept, User-Agent and a fresh X-Request-ID header
//   - is bounded by the http.Client timeout (90 seconds by default)
//   - records Prometheus request, duration and error metrics
//
// Network failures and 5xx responses are retried up to MaxRetries times with a
// doubling backoff capped at 30 seconds. Decode failures, 404s and other 4xx
// responses are returned immediately.
//
// # Caching
//
// When a Cache is configured, single-wallpaper bodies are stored under
// deterministic keys (see cache.Key) and served from there until they expire.
// Pages always go to the backend, since an empty page ends the scroll. An entry
// that no longer decodes, or whose id the backend reports missing, is deleted.
// Cache failures are logged and never fail a fetch.
//
// # Errors
//
// Backend failures are returned as *APIError carrying an ErrorClass. Use
// ClassOf, IsTransient, errors.Is(err, ErrNotFound) and errors.Is(err, ErrDecode)
// to inspect them.
package posters
