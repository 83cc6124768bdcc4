package wfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"wfm-flipper/internal/logger"
)

const (
	baseURL   = "https://api.warframe.market/v1"
	userAgent = "wfm-flipper/1.0"
)

// ErrSourceUnavailable reports that the marketplace itself could not be
// reached. Per-item failures never carry this error; they degrade to
// absent/empty values instead.
var ErrSourceUnavailable = errors.New("market source unavailable")

// DetailStore is a persistent L2 cache for per-item detail records.
type DetailStore interface {
	GetDetail(slug string) (ItemDetail, time.Time, bool)
	SetDetail(slug string, d ItemDetail)
}

// Client is a rate-limited warframe.market HTTP client with a TTL cache in
// front of every endpoint.
type Client struct {
	http        *http.Client
	baseURL     string
	limiter     *rate.Limiter
	sem         chan struct{}
	platform    string
	cache       *TTLCache
	detailStore DetailStore
	detailTTL   time.Duration
	log         zerolog.Logger
}

// ClientOptions configures a Client. Zero values fall back to defaults that
// stay well inside the marketplace's published request limits.
type ClientOptions struct {
	Platform          string
	RequestsPerSecond float64
	Burst             int
	CacheTTL          time.Duration
	DetailStore       DetailStore
	BaseURL           string // override for tests; default is the live API
}

// NewClient creates a marketplace client.
func NewClient(opts ClientOptions) *Client {
	if opts.Platform == "" {
		opts.Platform = "pc"
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 3
	}
	if opts.Burst <= 0 {
		opts.Burst = 3
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.BaseURL == "" {
		opts.BaseURL = baseURL
	}
	return &Client{
		http:        &http.Client{Timeout: 30 * time.Second},
		baseURL:     opts.BaseURL,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		sem:         make(chan struct{}, 8),
		platform:    opts.Platform,
		cache:       NewTTLCache(opts.CacheTTL),
		detailStore: opts.DetailStore,
		detailTTL:   opts.CacheTTL,
		log:         logger.Component("wfm"),
	}
}

// Cache exposes the client's TTL cache for inspection.
func (c *Client) Cache() *TTLCache {
	return c.cache
}

// HealthCheck verifies the upstream is reachable by fetching the catalog.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.FetchCatalog(ctx)
	return err == nil
}

// statusError reports a non-success upstream status for one request.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("wfm %d: %s", e.Code, e.Body)
}

// getJSON fetches a URL and decodes the JSON body into dst. It waits on the
// rate limiter first, then on the connection semaphore, so upstream never
// sees more than the configured request rate.
func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Platform", c.platform)
	req.Header.Set("Language", "en")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{Code: resp.StatusCode, Body: string(body)}
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
