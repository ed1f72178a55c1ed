package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/fixfx/artifactd/pkg/cache"
	apperrors "github.com/fixfx/artifactd/pkg/errors"
	"github.com/fixfx/artifactd/pkg/httputil"
	"github.com/fixfx/artifactd/pkg/observability"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 10 * time.Second
	userAgent      = "artifactd"

	// GitHub's unauthenticated ceiling; the first response replaces it with
	// the real remaining count.
	initialQuota = 60

	// commitCacheTTL bounds how long commit lookups are served from the
	// response cache. Commits are immutable, so this is generous.
	commitCacheTTL = 24 * time.Hour
)

// Sentinel errors for the upstream failure taxonomy.
var (
	// ErrAuth indicates an authentication failure (401/403). Fatal for the
	// current sync cycle.
	ErrAuth = errors.New("github: authentication failed")

	// ErrNotFound indicates the requested resource does not exist (404).
	// Callers skip the unit of work and continue.
	ErrNotFound = errors.New("github: resource not found")
)

var lastPagePattern = regexp.MustCompile(`[?&]page=(\d+)[^>]*>;\s*rel="last"`)

// Client is a rate-limit-aware GitHub REST client.
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	cache   cache.Cache
	limits  *rateLimitState
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used for tests and proxies.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Client with optional authentication and response
// caching. Pass an empty token for unauthenticated requests (lower quota,
// same behavior). Pass a NullCache to disable response caching.
func NewClient(token string, responseCache cache.Cache, opts ...Option) *Client {
	if responseCache == nil {
		responseCache = cache.NewNullCache()
	}
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: defaultBaseURL,
		token:   token,
		cache:   responseCache,
		limits:  newRateLimitState(initialQuota),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimit returns the last observed quota snapshot. It is synchronous and
// side-effect-free; the snapshot is updated by every upstream response.
func (c *Client) RateLimit() RateLimit {
	return c.limits.Snapshot()
}

// ListTags fetches one page of version tags for repo ("owner/name").
// When etag is non-empty it is sent as If-None-Match; an upstream 304 yields
// a TagsPage with NotModified set and no tags.
func (c *Client) ListTags(ctx context.Context, repo string, page, perPage int, etag string) (*TagsPage, error) {
	path := fmt.Sprintf("/repos/%s/tags?per_page=%d&page=%d", repo, perPage, page)

	body, header, status, err := c.get(ctx, path, etag)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotModified {
		return &TagsPage{ETag: etag, NotModified: true}, nil
	}

	var tags []Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("github: decode tags page %d: %w", page, err)
	}
	return &TagsPage{
		Tags:     tags,
		ETag:     header.Get("etag"),
		LastPage: parseLastPage(header.Get("link")),
	}, nil
}

// CommitDate fetches the committer timestamp for a commit SHA.
// Responses are cached; commits are immutable, so a cache hit skips the
// upstream call (and its quota cost) entirely.
func (c *Client) CommitDate(ctx context.Context, repo, sha string) (time.Time, error) {
	key := "github:commit:" + repo + ":" + sha

	if data, hit, _ := c.cache.Get(ctx, key); hit {
		observability.Cache().OnCacheHit(ctx, "commit")
		var cr commitResponse
		if err := json.Unmarshal(data, &cr); err == nil {
			return cr.Commit.Committer.Date, nil
		}
		// Corrupt entry: fall through to a live fetch.
	}
	observability.Cache().OnCacheMiss(ctx, "commit")

	path := fmt.Sprintf("/repos/%s/commits/%s", repo, url.PathEscape(sha))
	body, _, _, err := c.get(ctx, path, "")
	if err != nil {
		return time.Time{}, err
	}

	var cr commitResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return time.Time{}, fmt.Errorf("github: decode commit %s: %w", sha, err)
	}

	if err := c.cache.Set(ctx, key, body, commitCacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "commit", len(body))
	}
	return cr.Commit.Committer.Date, nil
}

// get performs a GET against the API, updates the rate-limit snapshot from
// the response headers, and maps the status code to the error taxonomy.
func (c *Client) get(ctx context.Context, path, etag string) ([]byte, http.Header, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, 0, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, nil, 0, httputil.Retryable(apperrors.Wrap(apperrors.ErrCodeNetwork, err, "request %s", path))
	}
	defer resp.Body.Close()

	limit := c.limits.Update(resp.Header)
	observability.HTTP().OnRateLimitUpdate(ctx, limit.Remaining, limit.Reset)
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNotModified {
		return nil, resp.Header, resp.StatusCode, nil
	}
	if err := c.checkStatus(resp.StatusCode, limit); err != nil {
		return nil, resp.Header, resp.StatusCode, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, resp.StatusCode, httputil.Retryable(apperrors.Wrap(apperrors.ErrCodeNetwork, err, "read %s", path))
	}
	return body, resp.Header, resp.StatusCode, nil
}

func (c *Client) checkStatus(code int, limit RateLimit) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests,
		code == http.StatusForbidden && limit.Remaining == 0:
		return httputil.Retryable(&apperrors.RateLimitedError{
			RetryAfter: retryAfterSeconds(limit.Reset),
		})
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrAuth
	case code >= 500:
		return httputil.Retryable(apperrors.New(apperrors.ErrCodeNetwork, "upstream status %d", code))
	default:
		return apperrors.New(apperrors.ErrCodeNetwork, "upstream status %d", code)
	}
}

// IsRateLimited reports whether err is an upstream rate-limit rejection.
func IsRateLimited(err error) bool {
	return errors.As(err, new(*apperrors.RateLimitedError))
}

func retryAfterSeconds(reset time.Time) int {
	if reset.IsZero() {
		return 0
	}
	secs := int(time.Until(reset).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// parseLastPage extracts the rel="last" page number from a Link header.
// Returns 0 when the header is absent or has no last relation.
func parseLastPage(link string) int {
	m := lastPagePattern.FindStringSubmatch(link)
	if m == nil {
		return 0
	}
	var n int
	fmt.Sscanf(m[1], "%d", &n)
	return n
}
