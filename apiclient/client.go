// Package apiclient talks to the marketplace REST API. Every response is wrapped in
// an envelope { data, meta?, error?: {message} }.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/secondbloom/admin-dashboard/internal/errors"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client calls the marketplace API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL (e.g. "https://api.example.com/api/v1").
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Pagination mirrors the backend's list metadata
type Pagination struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Envelope is the wrapper around every API response
type Envelope[T any] struct {
	Data  T          `json:"data"`
	Meta  *Meta      `json:"meta,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// call performs one request and decodes the envelope's data into a T.
func call[T any](ctx context.Context, c *Client, method, path, accessToken string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("[apiclient] encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("[apiclient] build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("[apiclient] %s %s: %w: %w", method, path, errors.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return zero, fmt.Errorf("[apiclient] read %s %s: %w: %w", method, path, errors.ErrTransport, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return zero, nil
	}

	var env Envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Code = env.Error.Code
		}
		return zero, apiErr
	}
	if decodeErr != nil {
		return zero, fmt.Errorf("[apiclient] decode %s %s: %w", method, path, decodeErr)
	}
	if env.Error != nil {
		return zero, &APIError{StatusCode: resp.StatusCode, Message: env.Error.Message, Code: env.Error.Code}
	}
	return env.Data, nil
}
