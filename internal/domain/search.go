package domain

import "context"

// ScoredProduct pairs a catalog entry with its similarity score.
// The score is nominally in [0,1]; a row whose score column failed to
// decode carries exactly 0.
type ScoredProduct struct {
	Product
	Score float64
}

// SearchResponse is the assembled result of one search request.
// Results keep the store's descending-similarity order. MaxScore is nil
// iff Results is empty.
type SearchResponse struct {
	Results  []ScoredProduct
	Total    int
	Query    string
	MaxScore *float64
}

// Embedder vectorizes text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HealthChecker is an optional capability of an Embedder.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
