package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/field-visit-etl/internal/domain"
	"github.com/couchcryptid/field-visit-etl/internal/observability"
)

// Client implements domain.RatingModelResolver against the rating model
// service's REST API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a rating model service client. An empty token sends no
// Authorization header.
func NewClient(baseURL, token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// ResolveRatingModel returns the first rating model the service reports for
// the location at the given time, or "" when there is none.
func (c *Client) ResolveRatingModel(ctx context.Context, locationIdentifier string, at domain.Timestamp) (string, error) {
	params := url.Values{
		"locationIdentifier": {locationIdentifier},
		"time":               {at.String()},
	}
	fullURL := c.baseURL + "/ratingmodels?" + params.Encode()

	start := time.Now()
	id, err := c.doRequest(ctx, fullURL)
	c.metrics.RatingLookupAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.RatingLookupRequests.WithLabelValues("error").Inc()
	case id == "":
		c.metrics.RatingLookupRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.RatingLookupRequests.WithLabelValues("success").Inc()
	}
	return id, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rating model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("rating model API error: status %d: %s", resp.StatusCode, body)
	}

	var ratingResp response
	if err := json.NewDecoder(resp.Body).Decode(&ratingResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	for _, m := range ratingResp.RatingModels {
		if m.Identifier != "" {
			c.logger.Debug("rating model resolved", "identifier", m.Identifier)
			return m.Identifier, nil
		}
	}
	return "", nil
}

// Rating model service response types.

type response struct {
	RatingModels []ratingModel `json:"ratingModels"`
}

type ratingModel struct {
	Identifier string `json:"identifier"`
	StartTime  string `json:"startTime,omitempty"`
	EndTime    string `json:"endTime,omitempty"`
}
