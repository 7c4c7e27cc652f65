package product

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/storekit/semsearch/internal/domain"
)

// Column counts for the positional row decoders. Checked once per row;
// a mismatch means the query and the decoder drifted apart.
const (
	similarityArity = 16
	lookupArity     = 14
)

// decodeRow converts one positional similarity row into a scored
// product. Columns 0..14 are the catalog projection, the last column is
// the similarity score. A null or non-numeric score degrades to 0.0
// instead of failing the row.
func decodeRow(vals []any) (domain.ScoredProduct, error) {
	if len(vals) != similarityArity {
		return domain.ScoredProduct{}, fmt.Errorf(
			"unexpected row shape: %d columns, want %d", len(vals), similarityArity,
		)
	}

	sp := domain.ScoredProduct{
		Product: decodeProduct(vals[:lookupArity]),
		Score:   scoreOf(vals[len(vals)-1]),
	}
	sp.Embedding = vectorText(vals[14])
	return sp, nil
}

// decodeProduct maps the 14 shared catalog columns. Null columns stay
// nil; there is no defaulting.
func decodeProduct(vals []any) domain.Product {
	return domain.Product{
		ID:          asInt64Ptr(vals[0]),
		ProductID:   asStringPtr(vals[1]),
		Title:       asStringPtr(vals[2]),
		Description: asStringPtr(vals[3]),
		Category:    asStringPtr(vals[4]),
		Brand:       asStringPtr(vals[5]),
		Price:       asFloatPtr(vals[6]),
		UnitPrice:   asFloatPtr(vals[7]),
		Rating:      asFloatPtr(vals[8]),
		ReviewCount: asIntPtr(vals[9]),
		Ranking:     asIntPtr(vals[10]),
		Votes:       asIntPtr(vals[11]),
		ImageURL:    asStringPtr(vals[12]),
		AmazonURL:   asStringPtr(vals[13]),
	}
}

// scoreOf converts the similarity column. Anything that is not a
// recognized numeric type scores 0.0 — a malformed score degrades the
// row's ranking, it does not abort the request.
func scoreOf(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int16:
		return float64(n)
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return 0.0
		}
		return f.Float64
	default:
		return 0.0
	}
}

// vectorText normalizes the stored embedding value to its textual
// "[v1,v2,...]" form. The driver may hand it back as a string or raw
// bytes depending on the wire format; anything else falls back to a
// generic string conversion.
func vectorText(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case []byte:
		s = string(t)
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	return &s
}

// FormatVector serializes a query vector for the ::vector cast:
// comma-separated, no spaces.
func FormatVector(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func asStringPtr(v any) *string {
	switch t := v.(type) {
	case string:
		return &t
	case []byte:
		s := string(t)
		return &s
	default:
		return nil
	}
}

func asInt64Ptr(v any) *int64 {
	switch t := v.(type) {
	case int64:
		return &t
	case int32:
		n := int64(t)
		return &n
	case int16:
		n := int64(t)
		return &n
	default:
		return nil
	}
}

func asIntPtr(v any) *int {
	switch t := v.(type) {
	case int64:
		n := int(t)
		return &n
	case int32:
		n := int(t)
		return &n
	case int16:
		n := int(t)
		return &n
	default:
		return nil
	}
}

func asFloatPtr(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case float32:
		n := float64(t)
		return &n
	case int64:
		n := float64(t)
		return &n
	case int32:
		n := float64(t)
		return &n
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		n := f.Float64
		return &n
	default:
		return nil
	}
}
