package atlassian

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"jirarecon/pkg/errors"
	"jirarecon/pkg/logger"
)

// DefaultUserAgent identifies the tool to the Atlassian API
const DefaultUserAgent = "jirarecon/1.0"

// Client fetches raw resources from the Jira REST API. It performs no
// authentication and no retries: one request per call.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a client whose requests time out after timeout
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
			"Accept":     "application/json",
		},
		logger: log,
	}
}

// SetHeaders adds headers sent with every request, replacing defaults of
// the same name
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// Fetch issues a GET for url and returns the status code and full body.
// Any status is returned as-is; deciding what counts as success is left to
// the caller. A cancelled ctx yields an interrupted error, every other
// failure to obtain a response yields a transport error.
func (c *Client) Fetch(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, errors.NewTransport(url, fmt.Errorf("failed to create request: %w", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    url,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, errors.NewInterrupted(url, ctxErr)
		}
		return 0, nil, errors.NewTransport(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return resp.StatusCode, nil, errors.NewInterrupted(url, ctxErr)
		}
		return resp.StatusCode, nil, errors.NewTransport(url, fmt.Errorf("failed to read response body: %w", err))
	}

	logger.LogRequest(c.logger, url, resp.StatusCode, time.Since(start))

	return resp.StatusCode, body, nil
}
