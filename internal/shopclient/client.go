// Package shopclient talks to the storefront HTTP API on behalf of a
// terminal or embedded client.
package shopclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"krubolab/internal/commerce"
	"krubolab/internal/model"

	"github.com/rs/zerolog"
)

// ErrConnection is returned when the API cannot be reached. Requests are not retried.
var ErrConnection = errors.New("connection error, please try again")

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// ErrResponseTooLarge is returned when a response body exceeds maxResponseBytes.
var ErrResponseTooLarge = errors.New("response body too large")

// maxResponseBytes bounds every response body read, matching the API's request limit.
const maxResponseBytes = 1 << 20

// APIError is a non-2xx response carrying the server's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d, message=%s", e.StatusCode, e.Message)
}

// BackendConfig is the public data-access configuration served by the API.
type BackendConfig struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

// Client calls the storefront API.
type Client struct {
	http    *http.Client
	baseURL string
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:  logger.With().Str("component", "shop-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products lists one page of the catalogue.
func (c *Client) Products(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return c.SearchProducts(ctx, model.ProductFilter{}, limit, offset)
}

// SearchProducts lists one page of the products matching filter.
func (c *Client) SearchProducts(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, error) {
	filter = filter.Normalize()
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Material != "" {
		q.Set("material", filter.Material)
	}

	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products?"+q.Encode(), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Services lists the workshop services, filtered by search when it is not blank.
func (c *Client) Services(ctx context.Context, search string) ([]model.ServiceOffering, error) {
	path := "/api/services"
	if search = strings.TrimSpace(search); search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}

	var services []model.ServiceOffering
	if err := c.do(ctx, http.MethodGet, path, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// Product fetches one product. It returns ErrNotFound when the id is unknown.
func (c *Client) Product(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Checkout places an order for the given cart lines.
func (c *Client) Checkout(ctx context.Context, customer model.Customer, items []commerce.Item) (*model.CheckoutResponse, error) {
	req := model.OrderRequest{
		Customer: customer,
		Items:    make([]model.OrderItemRequest, len(items)),
	}
	for i, item := range items {
		req.Items[i] = model.OrderItemRequest{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Color:    item.Color,
			Size:     item.Size,
			Image:    item.Image,
		}
	}

	var resp model.CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login verifies the admin password. A wrong password yields an *APIError
// with status 401.
func (c *Client) Login(ctx context.Context, password string) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin-login", map[string]string{"password": password}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Message: "login rejected"}
	}
	return nil
}

// BackendConfig fetches the public backend configuration.
func (c *Client) BackendConfig(ctx context.Context) (*BackendConfig, error) {
	var cfg BackendConfig
	if err := c.do(ctx, http.MethodGet, "/supabase-config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if len(data) > maxResponseBytes {
		c.logger.Warn().Str("method", method).Str("path", path).Msg("response body exceeds limit")
		return fmt.Errorf("%w: %s %s", ErrResponseTooLarge, method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("message", apiErr.Message).
			Msg("api returned an error")
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
