// Package cmr queries NASA's Common Metadata Repository (CMR) for granules
// and extracts the unique downloadable file URLs from the results.
package cmr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client searches CMR for granules and filters their links.
type Client struct {
	builder    *QueryBuilder
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a CMR client. A zero timeout leaves requests unbounded.
func NewClient(baseURL string, pageSize int, timeout time.Duration) *Client {
	return &Client{
		builder: NewQueryBuilder(baseURL, pageSize),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// WithEncodedValues makes the query builder escape parameter values.
func (c *Client) WithEncodedValues(enabled bool) *Client {
	c.builder.WithEncodedValues(enabled)
	return c
}

// BuildQueryURL returns the granule search URL for params.
func (c *Client) BuildQueryURL(params SearchParams) string {
	return c.builder.Build(params)
}

// FetchSearchResults performs a single GET of queryURL and decodes the JSON body.
// There is no retry.
func (c *Client) FetchSearchResults(ctx context.Context, queryURL string) (*SearchResponse, error) {
	c.logger.InfoContext(ctx, "querying CMR",
		slog.String("url", redactToken(queryURL)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrRequestFailed, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cmr-granule-links/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "CMR API request failed",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.ErrorContext(ctx, "CMR API returned non-200 status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrRequestFailed, err)
	}

	// Unmarshal rejects trailing data after the document.
	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode CMR response",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	c.logger.DebugContext(ctx, "CMR search completed",
		slog.Int("entries", len(result.Entries())),
	)

	return &result, nil
}

// GetURLs builds the query for params, fetches it and returns the filtered URLs.
func (c *Client) GetURLs(ctx context.Context, params SearchParams) ([]string, error) {
	report, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}
	return report.URLs, nil
}

// GetGranuleLinks is GetURLs with the accepted URLs grouped per granule.
func (c *Client) GetGranuleLinks(ctx context.Context, params SearchParams) ([]GranuleLinks, error) {
	report, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}
	return report.Granules, nil
}

func (c *Client) search(ctx context.Context, params SearchParams) (*FilterReport, error) {
	result, err := c.FetchSearchResults(ctx, c.BuildQueryURL(params))
	if err != nil {
		return nil, err
	}

	report := FilterLinksReport(result)

	c.logger.DebugContext(ctx, "filtered granule links",
		slog.Int("links", report.Total),
		slog.Int("accepted", len(report.URLs)),
		slog.Any("excluded", report.Excluded),
	)

	return report, nil
}
