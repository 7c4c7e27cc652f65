package domain

// Product is a catalog entry projected from the products table.
// Nullable columns decode to nil pointers: a nil field means the column
// was NULL, never a zero default.
type Product struct {
	ID          *int64
	ProductID   *string
	Title       *string
	Description *string
	Category    *string
	Brand       *string
	Price       *float64
	UnitPrice   *float64
	Rating      *float64
	ReviewCount *int
	Ranking     *int
	Votes       *int
	ImageURL    *string
	AmazonURL   *string
	// Embedding holds the stored vector normalized to its textual form
	// "[v1,v2,...]", regardless of the driver representation it arrived in.
	Embedding *string
}
