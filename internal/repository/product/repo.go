// Package product is the catalog gateway for the Postgres+pgvector store.
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/storekit/semsearch/internal/domain"
	"github.com/storekit/semsearch/internal/metrics"
)

// store is the consumer interface for catalog queries (ISP).
type store interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo implements the similarity gateway and product lookups.
type Repo struct {
	store store
}

// New creates a product repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// similarityQuery returns the nearest rows under cosine distance. The
// similarity column must stay last: row decoding addresses it positionally.
const similarityQuery = `
SELECT p.id, p.product_id, p.title, p.description, p.category, p.brand,
       p.price, p.unit_price, p.rating, p.review_count, p.ranking, p.votes,
       p.image_url, p.amazon_url, p.embedding,
       1 - (p.embedding <=> $1::vector) AS similarity
FROM products p
WHERE p.embedding IS NOT NULL
ORDER BY p.embedding <=> $1::vector
LIMIT $2`

// FindSimilar returns the limit nearest catalog entries to vector, in
// the store's descending-similarity order. It never re-sorts and never
// returns partial rows on failure.
func (r *Repo) FindSimilar(ctx context.Context, vector []float32, limit int) ([]domain.ScoredProduct, error) {
	start := time.Now()

	rows, err := r.store.Query(ctx, similarityQuery, FormatVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("find similar: %v: %w", err, domain.ErrStoreFailed)
	}
	defer rows.Close()

	var results []domain.ScoredProduct
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %v: %w", err, domain.ErrStoreFailed)
		}
		sp, err := decodeRow(vals)
		if err != nil {
			return nil, fmt.Errorf("decode row: %v: %w", err, domain.ErrStoreFailed)
		}
		results = append(results, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find similar: %v: %w", err, domain.ErrStoreFailed)
	}

	metrics.StoreQueryDuration.Observe(time.Since(start).Seconds())
	return results, nil
}

const lookupQuery = `
SELECT id, product_id, title, description, category, brand,
       price, unit_price, rating, review_count, ranking, votes,
       image_url, amazon_url
FROM products
WHERE product_id = $1`

// GetByProductID returns a single catalog entry by its external id.
func (r *Repo) GetByProductID(ctx context.Context, productID string) (domain.Product, error) {
	rows, err := r.store.Query(ctx, lookupQuery, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %v: %w", productID, err, domain.ErrStoreFailed)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("get product %s: %v: %w", productID, err, domain.ErrStoreFailed)
		}
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
	}

	vals, err := rows.Values()
	if err != nil {
		return domain.Product{}, fmt.Errorf("read row: %v: %w", err, domain.ErrStoreFailed)
	}
	if len(vals) != lookupArity {
		return domain.Product{}, fmt.Errorf(
			"unexpected row shape: %d columns, want %d: %w", len(vals), lookupArity, domain.ErrStoreFailed,
		)
	}

	return decodeProduct(vals), nil
}
