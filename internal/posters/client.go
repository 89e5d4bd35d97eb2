package posters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/five82/posters/internal/cache"
	"github.com/five82/posters/internal/logging"
)

// Fetcher defines the backend operations the pager depends on.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) ([]Wallpaper, error)
	FetchWallpaper(ctx context.Context, id string) (Wallpaper, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Cache stores raw single-wallpaper bodies between runs. Page bodies are never
// cached: an empty page marks the end of the catalog and pages shift as the
// backend grows.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Client talks to the posters backend.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	retryBase  time.Duration
	cache      Cache
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	RetryBase         time.Duration
	UserAgent         string
	Cache             Cache
	CacheTTL          time.Duration
	HTTPClient        *http.Client
}

const (
	// DefaultBaseURL is the public posters backend.
	DefaultBaseURL = "https://posters-backend-ibn4.onrender.com/"

	defaultUserAgent = "posters/0.1"
	defaultTimeout   = 90 * time.Second
	defaultCacheTTL  = 10 * time.Minute
	maxBodyBytes     = 8 << 20

	endpointPage      = "getWallpapers"
	endpointWallpaper = "getWallpaper"
)

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	retryBase := opts.RetryBase
	if retryBase <= 0 {
		retryBase = defaultRetryBase
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &Client{
		baseURL:    base,
		http:       httpClient,
		userAgent:  userAgent,
		limiter:    limiter,
		maxRetries: maxRetries,
		retryBase:  retryBase,
		cache:      opts.Cache,
		cacheTTL:   cacheTTL,
		log:        logging.NewLogger("client"),
	}, nil
}

// FetchPage retrieves page number page. An empty result means the collection is exhausted.
func (c *Client) FetchPage(ctx context.Context, page int) ([]Wallpaper, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if page < 0 {
		return nil, fmt.Errorf("page must be >= 0, got %d", page)
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	rel := &url.URL{Path: endpointPage, RawQuery: values.Encode()}

	var payload []Wallpaper
	if err := c.fetchJSON(ctx, endpointPage, rel, "", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchWallpaper retrieves a single wallpaper by ID.
func (c *Client) FetchWallpaper(ctx context.Context, id string) (Wallpaper, error) {
	if c == nil {
		return Wallpaper{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Wallpaper{}, fmt.Errorf("wallpaper id required")
	}
	rel := &url.URL{
		Path:    endpointWallpaper + "/" + id,
		RawPath: endpointWallpaper + "/" + url.PathEscape(id),
	}

	var payload Wallpaper
	if err := c.fetchJSON(ctx, endpointWallpaper, rel, cache.Key(endpointWallpaper+"/"+id, nil), &payload); err != nil {
		return Wallpaper{}, err
	}
	if payload.ID == "" {
		payload.ID = id
	}
	return payload, nil
}

// fetchJSON serves dest from the cache when possible, otherwise from the backend.
// An empty cacheKey bypasses the cache. Only bodies that decode cleanly are
// written back; undecodable entries and ids the backend no longer knows are
// evicted.
func (c *Client) fetchJSON(ctx context.Context, endpoint string, rel *url.URL, cacheKey string, dest any) error {
	if body, ok := c.cached(ctx, cacheKey); ok {
		if err := json.Unmarshal(body, dest); err == nil {
			return nil
		}
		c.log.Warn().Str("key", cacheKey).Msg("discarding undecodable cache entry")
		c.evict(ctx, cacheKey)
	}

	var body []byte
	err := c.withRetry(ctx, endpoint, func() error {
		var err error
		body, err = c.doURL(ctx, endpoint, rel)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.evict(ctx, cacheKey)
		}
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &APIError{
			Class:    ErrorClassDecode,
			Endpoint: rel.String(),
			Err:      fmt.Errorf("%w: %v", ErrDecode, err),
		}
	}

	if c.cache != nil && cacheKey != "" {
		if err := c.cache.Set(ctx, cacheKey, body, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("cache write failed")
		}
	}
	return nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil || key == "" {
		return nil, false
	}
	body, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		cacheLookups.WithLabelValues("hit").Inc()
		c.log.Debug().Str("key", key).Msg("cache hit")
		return body, true
	case errors.Is(err, cache.ErrCacheMiss):
		cacheLookups.WithLabelValues("miss").Inc()
	default:
		cacheLookups.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to backend")
	}
	return nil, false
}

func (c *Client) evict(ctx context.Context, key string) {
	if c.cache == nil || key == "" {
		return
	}
	if err := c.cache.Delete(ctx, key); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

func (c *Client) doURL(ctx context.Context, endpoint string, rel *url.URL) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("execute request: %w", ctxErr)
		}
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &APIError{
			Class:    ErrorClassNetwork,
			Endpoint: rel.String(),
			Err:      fmt.Errorf("execute request: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("endpoint", rel.String()).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("backend request")

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(class)).Inc()
		apiErr := &APIError{Class: class, StatusCode: resp.StatusCode, Endpoint: rel.String()}
		if class == ErrorClassNotFound {
			apiErr.Err = ErrNotFound
		}
		return nil, apiErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("read response: %w", ctxErr)
		}
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &APIError{
			Class:    ErrorClassNetwork,
			Endpoint: rel.String(),
			Err:      fmt.Errorf("read response: %w", err),
		}
	}
	return body, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base_url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
