// Package predictapi is the HTTP adapter for the external prediction service.
package predictapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"heartdash/domain/payload"
	"heartdash/domain/prediction"
	"heartdash/internal"
	"heartdash/ports"
)

// PredictionPath is the JSON path of the label in a successful response
const PredictionPath = "prediction"

// Client sends one GET request per prediction. It never retries.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *internal.Logger
}

var _ ports.Predictor = (*Client)(nil)

// NewClient creates a client for endpoint. A zero timeout means the request
// is bounded only by the caller's context.
func NewClient(endpoint string, timeout time.Duration, logger *internal.Logger) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid prediction endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid prediction endpoint %q: scheme must be http or https", endpoint)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Client{
		endpoint: u,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.WithComponent("PredictionClient"),
	}, nil
}

// Endpoint returns the configured endpoint
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Predict sends p as query parameters and returns the "prediction" field of
// the response. Failures come back as *prediction.RequestError.
func (c *Client) Predict(ctx context.Context, p payload.Payload) (prediction.Label, error) {
	req, err := c.buildRequest(ctx, p)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request to %s failed after %s: %v", c.endpoint.Host, time.Since(start), err)
		return "", &prediction.RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &prediction.RequestError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("GET %s -> %d in %s (%d bytes)", req.URL.Path, resp.StatusCode, time.Since(start), len(body))

	if resp.StatusCode != http.StatusOK {
		return "", &prediction.RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return parseLabel(body), nil
}

// buildRequest merges the payload into any query already on the endpoint
func (c *Client) buildRequest(ctx context.Context, p payload.Payload) (*http.Request, error) {
	u := *c.endpoint
	q := u.Query()
	for k, vs := range p.Query() {
		q[k] = vs
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// parseLabel extracts the label. A missing field or a body that is not JSON
// yields an empty label.
func parseLabel(body []byte) prediction.Label {
	if !gjson.ValidBytes(body) {
		return ""
	}
	result := gjson.GetBytes(body, PredictionPath)
	if !result.Exists() || result.Type == gjson.Null {
		return ""
	}
	if result.Type == gjson.String {
		return prediction.Label(result.Str)
	}
	return prediction.Label(result.Raw)
}
