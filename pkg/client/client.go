// Package client is a Go client for the semsearch HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Client talks to a semsearch server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Product is a catalog entry returned by the API. Pointer fields are
// null in the catalog when nil.
type Product struct {
	ProductID       *string  `json:"productId"`
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	Brand           *string  `json:"brand"`
	Price           *float64 `json:"price"`
	UnitPrice       *float64 `json:"unitPrice"`
	Rating          *float64 `json:"rating"`
	ReviewCount     *int     `json:"reviewCount"`
	Ranking         *int     `json:"ranking"`
	Votes           *int     `json:"votes"`
	ImageURL        *string  `json:"imageUrl"`
	AmazonURL       *string  `json:"amazonUrl"`
	SimilarityScore *float64 `json:"similarityScore,omitempty"`
}

// SearchResponse is the result of a search call.
type SearchResponse struct {
	Results  []Product `json:"results"`
	Total    int       `json:"total"`
	Query    string    `json:"query"`
	MaxScore *float64  `json:"maxScore"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("semsearch: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
}

type searchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// Search runs a semantic product search. limit <= 0 means server default.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	reqBody := searchRequest{Query: query}
	if limit > 0 {
		reqBody.Limit = &limit
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp SearchResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProduct fetches one catalog entry by its external id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products/"+productID, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new product request: %w", err)
	}

	var p Product
	if err := c.do(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call semsearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
