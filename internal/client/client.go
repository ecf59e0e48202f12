// Package client talks to the gato admin REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pysugar/gato-admin/internal/catalog"
	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/form"
	"github.com/pysugar/gato-admin/internal/logging"
	"github.com/pysugar/gato-admin/internal/util"
	"github.com/pysugar/gato-admin/internal/version"
)

// Error codes sent by the server next to the message.
const (
	CodeConflict       = "conflict"
	CodeDuplicateAlias = "duplicate_alias"
)

const maxErrorBody = 64 * 1024

// Client implements the record store operations over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBasicAuth sends admin credentials with every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// New creates a client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListModels returns every record in store order.
func (c *Client) ListModels(ctx context.Context) ([]models.ModelConfig, error) {
	var out []models.ModelConfig
	if err := c.do(ctx, "list models", http.MethodGet, "/api/models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetModel returns one record.
func (c *Client) GetModel(ctx context.Context, id uint) (*models.ModelConfig, error) {
	var out models.ModelConfig
	if err := c.do(ctx, "get model", http.MethodGet, fmt.Sprintf("/api/models/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateModel posts a new record.
func (c *Client) CreateModel(ctx context.Context, candidate models.ModelConfig) (*models.ModelConfig, error) {
	candidate.ID = 0
	var out models.ModelConfig
	if err := c.do(ctx, "create model", http.MethodPost, "/api/models", candidate, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateModel replaces the record candidate.ID.
func (c *Client) UpdateModel(ctx context.Context, candidate models.ModelConfig) (*models.ModelConfig, error) {
	var out models.ModelConfig
	if err := c.do(ctx, "update model", http.MethodPut, "/api/models", candidate, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteModel removes a record and returns its prior state.
func (c *Client) DeleteModel(ctx context.Context, id uint) (*models.ModelConfig, error) {
	var out models.ModelConfig
	body := map[string]uint{"id": id}
	if err := c.do(ctx, "delete model", http.MethodDelete, "/api/models", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CatalogResponse is the body of GET /api/catalog.
type CatalogResponse struct {
	Models       []catalog.Option `json:"models"`
	RoutingModes []catalog.Option `json:"routingModes"`
	Strategies   []catalog.Option `json:"strategies"`
}

// Catalog returns the selectable models, routing modes and strategies.
func (c *Client) Catalog(ctx context.Context) (*CatalogResponse, error) {
	var out CatalogResponse
	if err := c.do(ctx, "get catalog", http.MethodGet, "/api/catalog", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Errors []form.FieldError `json:"errors"`
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent("gatoctl"))
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logging.GetRequestID(ctx); id != "" {
		req.Header.Set(logging.HeaderRequestID, id)
	}
	if c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}
	return decodeError(resp)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Error == "" {
		eb.Error = util.Truncate(strings.TrimSpace(string(raw)), util.DefaultMaxLen)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict && eb.Code == CodeConflict:
		return ErrConflict
	case resp.StatusCode == http.StatusUnprocessableEntity && len(eb.Errors) > 0:
		return &form.ValidationError{Errors: eb.Errors}
	}
	return &PersistenceError{Status: resp.StatusCode, Code: eb.Code, Message: eb.Error}
}
