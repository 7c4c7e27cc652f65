package domain

import "errors"

var (
	// ErrInvalidQuery signals a blank query or a non-positive limit.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingFailed signals an embedding provider failure (timeout, transport, or bad response).
	ErrEmbeddingFailed = errors.New("embedding request failed")
	// ErrStoreFailed signals a similarity store query or row-shape failure.
	ErrStoreFailed = errors.New("similarity store failed")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
)
