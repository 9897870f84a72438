// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package client talks to a running greetd daemon over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultURL is used when neither --url nor GREETD_URL is set.
const DefaultURL = "http://localhost:8080"

// Config is the daemon's view of the applied configuration.
type Config struct {
	Prefix    string    `json:"prefix"`
	Epoch     uint64    `json:"epoch"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
	Persisted *bool     `json:"persisted,omitempty"`
}

// APIError is a non-2xx response from the daemon.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Code, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Code, e.StatusCode)
}

// HTTPClient calls the greetd REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting baseURL (e.g. "http://localhost:8080").
// Outgoing requests carry W3C trace context.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *HTTPClient) SayHello(ctx context.Context, name string) (string, error) {
	var resp struct {
		Greeting string `json:"greeting"`
	}
	q := url.Values{"name": []string{name}}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/hello?"+q.Encode(), nil, &resp); err != nil {
		return "", err
	}
	return resp.Greeting, nil
}

func (c *HTTPClient) GetConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) SetPrefix(ctx context.Context, prefix string) (*Config, error) {
	var cfg Config
	body := map[string]string{"prefix": prefix}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/config", body, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) ResetPrefix(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) Reload(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/config/reload", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Code: errResp.Error, Detail: errResp.Detail}
		}
		return &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode), Detail: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
