package search

import (
	"context"

	"github.com/storekit/semsearch/internal/domain"
)

// Repository defines the storage contract for similarity queries.
type Repository interface {
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]domain.ScoredProduct, error)
}

// Embedder vectorizes query text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
