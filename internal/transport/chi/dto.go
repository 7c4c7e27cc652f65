package chi

import "github.com/storekit/semsearch/internal/domain"

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeEmbeddingFailed  = "embedding_failed"
	codeStoreFailed      = "store_failed"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

// productResult mirrors the catalog projection. Null columns serialize
// as JSON null, never as zero values.
type productResult struct {
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

type searchResponse struct {
	Results  []productResult `json:"results"`
	Total    int             `json:"total"`
	Query    string          `json:"query"`
	MaxScore *float64        `json:"maxScore"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func productToDTO(p domain.Product, score *float64) productResult {
	return productResult{
		ProductID:       p.ProductID,
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		Brand:           p.Brand,
		Price:           p.Price,
		UnitPrice:       p.UnitPrice,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		Ranking:         p.Ranking,
		Votes:           p.Votes,
		ImageURL:        p.ImageURL,
		AmazonURL:       p.AmazonURL,
		SimilarityScore: score,
	}
}

func searchResponseToDTO(resp domain.SearchResponse) searchResponse {
	results := make([]productResult, len(resp.Results))
	for i, r := range resp.Results {
		score := r.Score
		results[i] = productToDTO(r.Product, &score)
	}
	return searchResponse{
		Results:  results,
		Total:    resp.Total,
		Query:    resp.Query,
		MaxScore: resp.MaxScore,
	}
}
