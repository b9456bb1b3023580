// Package crmapi is the HTTP client for the external CRM API. It implements
// the collection fetcher, the write-through operations and the login exchange.
// Nothing here caches; every call is a round trip.
package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// messageBody is the error envelope the CRM API uses: {"message": "..."}.
type messageBody struct {
	Message string `json:"message"`
}

// do performs one request and decodes a 2xx JSON body into out (when out is
// non-nil). Any transport error, non-2xx status or undecodable body is
// reported as an error matching domain.ErrFetchFailed.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, body, out)
	metrics.CRMRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
		c.log.Debug().Err(err).Str("op", op).Msg("crm api request failed")
	}
	metrics.CRMRequestsTotal.WithLabelValues(op, result).Inc()
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(domain.ErrFetchFailed, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, errors.Join(domain.ErrFetchFailed, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{Method: method, Path: path, Status: resp.StatusCode}
		var mb messageBody
		if json.Unmarshal(respBody, &mb) == nil {
			apiErr.Message = mb.Message
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s %s: decode body: %w", method, path, errors.Join(domain.ErrFetchFailed, err))
	}
	return nil
}

// isStatus reports whether err is an APIError with the given status.
func isStatus(err error, status int) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Ping is the readiness check for the CRM API: any HTTP answer from the
// server counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.BaseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm api unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
