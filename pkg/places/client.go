// Package places provides a Google Places Nearby Search client used to sample
// map-pack rankings around candidate cities.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/rankradius/rankradius/internal/resilience"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client performs Places API nearby searches.
type Client interface {
	NearbySearch(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest describes one nearby search.
type SearchRequest struct {
	Keyword string
	Lat     float64
	Lng     float64
	RadiusM int
}

// SearchResponse is the ordered result list for one search. Results arrive in
// the provider's relevance order; the caller decides how deep to look.
type SearchResponse struct {
	Status  string  `json:"status"`
	Results []Entry `json:"results"`
}

// Entry is one ranked place. Rating and ReviewCount are nil when the provider
// omits them, which happens for places with no reviews.
type Entry struct {
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"user_ratings_total,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit applied before every call.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides the default retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(1, 1),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("places", "nearby_search")
	}
	return c
}

// NearbySearch performs one nearby search, retrying 429/5xx and network-level
// failures with backoff. Every attempt waits on the shared rate limiter.
func (c *httpClient) NearbySearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*SearchResponse, error) {
		return c.nearbySearch(ctx, req)
	})
}

func (c *httpClient) nearbySearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit wait")
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", req.Lat, req.Lng))
	q.Set("radius", fmt.Sprintf("%d", req.RadiusM))
	q.Set("keyword", req.Keyword)
	q.Set("type", "establishment")
	q.Set("key", c.apiKey)

	u := c.baseURL + "/nearbysearch/json?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal response")
	}

	return &result, nil
}
