// Package pedidosclient talks to the pedidos REST API. Client maps one call
// to one request; Session keeps the last order snapshot for a dashboard.
package pedidosclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pedidos api: status %d", e.Status)
	}
	return fmt.Sprintf("pedidos api: status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client is safe for concurrent use
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api/v1"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login exchanges credentials for a token and keeps it for later calls
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("pedidos api: login response without token")
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

// ListOrders returns the raw order objects as stored by the server
func (c *Client) ListOrders(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, "/pedidos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Orders returns every order normalized into engine records
func (c *Client) Orders(ctx context.Context) ([]orderview.Record, error) {
	raws, err := c.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return orderview.NormalizeAll(raws), nil
}

// GetOrder fetches order id
func (c *Client) GetOrder(ctx context.Context, id string) (orderview.Record, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/pedidos/"+url.PathEscape(id), nil, &out); err != nil {
		return orderview.Record{}, err
	}
	return orderview.Normalize(out), nil
}

// CreateOrder stores a new order and returns the created record
func (c *Client) CreateOrder(ctx context.Context, r orderview.Record) (orderview.Record, error) {
	return c.writeOrder(ctx, http.MethodPost, "/pedidos", r)
}

// UpdateOrder replaces every field of order id
func (c *Client) UpdateOrder(ctx context.Context, id string, r orderview.Record) (orderview.Record, error) {
	return c.writeOrder(ctx, http.MethodPut, "/pedidos/"+url.PathEscape(id), r)
}

// DeleteOrder removes order id
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/pedidos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) writeOrder(ctx context.Context, method, path string, r orderview.Record) (orderview.Record, error) {
	r = r.Sanitized()
	body := map[string]any{
		"pedido":      r.OrderLabel,
		"cliente":     r.Customer,
		"tienda":      r.Store,
		"descripcion": r.Description,
		"estado":      r.Status,
		"costo":       r.Cost,
		"envio":       r.ShippingCost,
		"costoCompra": r.PurchaseCost,
	}
	var out map[string]any
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return orderview.Record{}, err
	}
	return orderview.Normalize(out), nil
}

// SaveSummary stores a summary payload and returns the stored record
func (c *Client) SaveSummary(ctx context.Context, s orderview.SavedSummary, idempotencyKey string) (orderview.SavedSummary, error) {
	var out orderview.SavedSummary
	var headers http.Header
	if idempotencyKey != "" {
		headers = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}
	if err := c.send(ctx, http.MethodPost, "/resumenes", s, headers, &out); err != nil {
		return orderview.SavedSummary{}, err
	}
	return out, nil
}

// ListSummaries returns every stored summary, newest first
func (c *Client) ListSummaries(ctx context.Context) ([]orderview.SavedSummary, error) {
	var out []orderview.SavedSummary
	if err := c.do(ctx, http.MethodGet, "/resumenes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSummary removes summary id
func (c *Client) DeleteSummary(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/resumenes/"+url.PathEscape(id), nil, nil)
}

// ProfitReport fetches the profit table across every summary
func (c *Client) ProfitReport(ctx context.Context) (orderview.ProfitReport, error) {
	var out struct {
		Data orderview.ProfitReport `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/resumenes/ganancias", nil, &out); err != nil {
		return orderview.ProfitReport{}, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body any, headers http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError reads the server's message field when there is one
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
