// Package search orchestrates a semantic product search: embed the
// query, fetch the nearest catalog rows, assemble the response.
package search

import (
	"context"
	"fmt"

	"github.com/storekit/semsearch/internal/domain"
)

// Service handles product search over the similarity store.
type Service struct {
	repo         Repository
	embed        Embedder
	defaultLimit int
	maxLimit     int
}

// New creates a search service. defaultLimit applies when the caller
// gives no limit; maxLimit silently caps over-large requests.
func New(repo Repository, embed Embedder, defaultLimit, maxLimit int) *Service {
	return &Service{repo: repo, embed: embed, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Search runs one search request. query must be non-blank (enforced at
// the transport boundary); limit, if non-nil, must be >= 1. Results keep
// the store's order. A downstream failure aborts the whole request —
// there is never a partial response.
func (s *Service) Search(ctx context.Context, query string, limit *int) (domain.SearchResponse, error) {
	effective := s.defaultLimit
	if limit != nil {
		effective = *limit
	}
	// Clamp, never reject: an over-large limit is capped to maxLimit.
	if effective > s.maxLimit {
		effective = s.maxLimit
	}

	vector, err := s.embed.Embed(ctx, query)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("vectorize query: %w", err)
	}

	rows, err := s.repo.FindSimilar(ctx, vector, effective)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("find similar: %w", err)
	}

	results := make([]domain.ScoredProduct, 0, len(rows))
	var maxScore *float64
	for _, row := range rows {
		if maxScore == nil || row.Score > *maxScore {
			score := row.Score
			maxScore = &score
		}
		results = append(results, row)
	}

	return domain.SearchResponse{
		Results:  results,
		Total:    len(results),
		Query:    query,
		MaxScore: maxScore,
	}, nil
}
