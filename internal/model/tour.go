package model

// Tour is a catalog offering shown on the public site. Location, Rating and
// ReviewCount are optional and left nil when unknown.
type Tour struct {
	ID             uint64   `json:"id"`
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Duration       string   `json:"duration"`
	PriceLabel     string   `json:"price"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image"`
	Location       *string  `json:"location,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewCount    *uint32  `json:"review_count,omitempty"`
}
