// Package embedding is an HTTP client for the text embedding service:
// POST {"text": ...} -> {"embedding": [...]}.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/storekit/semsearch/internal/domain"
	"github.com/storekit/semsearch/internal/metrics"
)

const providerName = "http"

const defaultTimeout = 30 * time.Second

// Client calls the embedding service. One outbound request per Embed
// call, no retries; the configured timeout bounds the whole call.
type Client struct {
	endpoint  string
	healthURL string
	client    *http.Client
	logger    *zap.Logger
}

// Config holds the embedding service settings.
type Config struct {
	// BaseURL is the full embed endpoint URL.
	BaseURL string
	// HealthURL, if set, is probed by HealthCheck.
	HealthURL string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClient creates an embedding service client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:  cfg.BaseURL,
		healthURL: cfg.HealthURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Dimension int       `json:"dimension"`
}

// Embed implements domain.Embedder. Timeout, transport, and
// bad-response failures all surface as domain.ErrEmbeddingFailed with a
// descriptive cause.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %v: %w", err, domain.ErrEmbeddingFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new embed request: %v: %w", err, domain.ErrEmbeddingFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		errType := "transport"
		if isTimeout(err) {
			errType = "timeout"
		}
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, errType).Inc()
		return nil, fmt.Errorf("call embedding service: %v: %w", err, domain.ErrEmbeddingFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, "bad_status").Inc()
		return nil, fmt.Errorf("embedding service returned status %d: %w", resp.StatusCode, domain.ErrEmbeddingFailed)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, "bad_response").Inc()
		return nil, fmt.Errorf("decode embedding response: %v: %w", err, domain.ErrEmbeddingFailed)
	}
	if len(parsed.Embedding) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, "bad_response").Inc()
		return nil, fmt.Errorf("embedding missing in response: %w", domain.ErrEmbeddingFailed)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	return parsed.Embedding, nil
}

// HealthCheck probes the embedding service health endpoint. A client
// with no health URL configured reports healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.healthURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("new health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding health check: status %d", resp.StatusCode)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
