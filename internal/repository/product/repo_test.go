package product

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/storekit/semsearch/internal/domain"
)

// --- Mocks ---

type fakeRows struct {
	rows      [][]any
	idx       int
	err       error
	valuesErr error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Scan(_ ...any) error                          { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx < len(r.rows) {
		r.idx++
		return true
	}
	return false
}

func (r *fakeRows) Values() ([]any, error) {
	if r.valuesErr != nil {
		return nil, r.valuesErr
	}
	return r.rows[r.idx-1], nil
}

type fakeStore struct {
	rows     pgx.Rows
	err      error
	lastSQL  string
	lastArgs []any
}

func (s *fakeStore) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.lastSQL = sql
	s.lastArgs = args
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func numeric(unscaled int64, exp int32) pgtype.Numeric {
	return pgtype.Numeric{Int: big.NewInt(unscaled), Exp: exp, Valid: true}
}

// simRow builds a full 16-column similarity row with the given score value.
func simRow(score any) []any {
	return []any{
		int64(1), "B001", "Wireless Headphones", "Over-ear, 30h battery", "Electronics", "Soundfield",
		numeric(4999, -2), numeric(4999, -2), numeric(45, -1), int32(128), int32(3), int32(17),
		"https://img.example.com/b001.jpg", "https://amazon.example.com/dp/B001",
		"[0.1,0.2,0.3]",
		score,
	}
}

// --- Tests ---

func TestFindSimilar_DecodesRowsInStoreOrder(t *testing.T) {
	first := simRow(0.95)
	second := simRow(0.80)
	second[1] = "B002"

	store := &fakeStore{rows: &fakeRows{rows: [][]any{first, second}}}
	repo := New(store)

	results, err := repo.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := *results[0].ProductID; got != "B001" {
		t.Errorf("results[0].ProductID = %q, want B001", got)
	}
	if got := *results[1].ProductID; got != "B002" {
		t.Errorf("results[1].ProductID = %q, want B002", got)
	}
	if results[0].Score != 0.95 || results[1].Score != 0.80 {
		t.Errorf("scores = %f, %f", results[0].Score, results[1].Score)
	}
	if got := *results[0].Price; got != 49.99 {
		t.Errorf("price = %f, want 49.99", got)
	}
	if got := *results[0].Rating; got != 4.5 {
		t.Errorf("rating = %f, want 4.5", got)
	}
	if got := *results[0].ReviewCount; got != 128 {
		t.Errorf("review count = %d, want 128", got)
	}
	if got := *results[0].Embedding; got != "[0.1,0.2,0.3]" {
		t.Errorf("embedding = %q", got)
	}
}

func TestFindSimilar_PassesVectorAndLimit(t *testing.T) {
	store := &fakeStore{rows: &fakeRows{}}
	repo := New(store)

	if _, err := repo.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.lastArgs) != 2 {
		t.Fatalf("expected 2 args, got %d", len(store.lastArgs))
	}
	if store.lastArgs[0] != "[0.1,0.2,0.3]" {
		t.Errorf("vector arg = %v, want [0.1,0.2,0.3]", store.lastArgs[0])
	}
	if store.lastArgs[1] != 7 {
		t.Errorf("limit arg = %v, want 7", store.lastArgs[1])
	}
}

func TestFindSimilar_EmptyResult(t *testing.T) {
	store := &fakeStore{rows: &fakeRows{}}
	repo := New(store)

	results, err := repo.FindSimilar(context.Background(), []float32{0.1}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestFindSimilar_QueryError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	repo := New(store)

	_, err := repo.FindSimilar(context.Background(), []float32{0.1}, 10)
	if !errors.Is(err, domain.ErrStoreFailed) {
		t.Fatalf("expected ErrStoreFailed, got %v", err)
	}
}

func TestFindSimilar_ArityMismatch(t *testing.T) {
	store := &fakeStore{rows: &fakeRows{rows: [][]any{{int64(1), "B001", 0.95}}}}
	repo := New(store)

	_, err := repo.FindSimilar(context.Background(), []float32{0.1}, 10)
	if !errors.Is(err, domain.ErrStoreFailed) {
		t.Fatalf("expected ErrStoreFailed for short row, got %v", err)
	}
}

func TestDecodeRow_NullFieldsStayAbsent(t *testing.T) {
	row := simRow(0.5)
	for i := 6; i <= 11; i++ { // price, unit_price, rating, review_count, ranking, votes
		row[i] = nil
	}
	row[5] = nil // brand

	sp, err := decodeRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Price != nil || sp.UnitPrice != nil || sp.Rating != nil {
		t.Error("expected nil price/unit_price/rating for NULL columns")
	}
	if sp.ReviewCount != nil || sp.Ranking != nil || sp.Votes != nil {
		t.Error("expected nil review_count/ranking/votes for NULL columns")
	}
	if sp.Brand != nil {
		t.Error("expected nil brand for NULL column")
	}
	if sp.Score != 0.5 {
		t.Errorf("score = %f, want 0.5", sp.Score)
	}
}

func TestDecodeRow_MalformedScoreDegradesToZero(t *testing.T) {
	for name, score := range map[string]any{
		"null":    nil,
		"string":  "not a number",
		"boolean": true,
	} {
		t.Run(name, func(t *testing.T) {
			sp, err := decodeRow(simRow(score))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sp.Score != 0.0 {
				t.Errorf("score = %f, want 0.0", sp.Score)
			}
		})
	}
}

func TestDecodeRow_NumericScoreTypes(t *testing.T) {
	for name, tc := range map[string]struct {
		score any
		want  float64
	}{
		"float64": {0.95, 0.95},
		"float32": {float32(0.5), 0.5},
		"int64":   {int64(1), 1.0},
		"numeric": {numeric(95, -2), 0.95},
	} {
		t.Run(name, func(t *testing.T) {
			sp, err := decodeRow(simRow(tc.score))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sp.Score != tc.want {
				t.Errorf("score = %f, want %f", sp.Score, tc.want)
			}
		})
	}
}

func TestDecodeRow_VectorRepresentations(t *testing.T) {
	row := simRow(0.9)
	row[14] = []byte("[0.4,0.5]")
	sp, err := decodeRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *sp.Embedding; got != "[0.4,0.5]" {
		t.Errorf("embedding from bytes = %q", got)
	}

	row[14] = nil
	sp, err = decodeRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Embedding != nil {
		t.Error("expected nil embedding for NULL column")
	}
}

func TestFormatVector(t *testing.T) {
	got := FormatVector([]float32{0.1, 0.2, 0.3})
	if got != "[0.1,0.2,0.3]" {
		t.Errorf("FormatVector = %q, want [0.1,0.2,0.3]", got)
	}

	if got := FormatVector(nil); got != "[]" {
		t.Errorf("FormatVector(nil) = %q, want []", got)
	}
}

func TestGetByProductID_Found(t *testing.T) {
	row := simRow(0)[:lookupArity]
	store := &fakeStore{rows: &fakeRows{rows: [][]any{row}}}
	repo := New(store)

	p, err := repo.GetByProductID(context.Background(), "B001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *p.ProductID; got != "B001" {
		t.Errorf("ProductID = %q, want B001", got)
	}
	if store.lastArgs[0] != "B001" {
		t.Errorf("query arg = %v, want B001", store.lastArgs[0])
	}
}

func TestGetByProductID_NotFound(t *testing.T) {
	store := &fakeStore{rows: &fakeRows{}}
	repo := New(store)

	_, err := repo.GetByProductID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
