package domain

import "time"

// Product is owned by exactly one seller. Images is an ordered list of URLs;
// the first element is the cover image shown in listings.
type Product struct {
	ID            string    `bson:"_id" json:"id"`
	SellerID      string    `bson:"seller_id" json:"seller_id"`
	CategoryID    string    `bson:"category_id" json:"category_id"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description" json:"description"`
	Price         float64   `bson:"price" json:"price"`
	Available     bool      `bson:"available" json:"available"`
	Stock         int       `bson:"stock" json:"stock"`
	Images        []string  `bson:"images" json:"images"`
	RatingSum     float64   `bson:"rating_sum" json:"-"`
	RatingAverage float64   `bson:"rating_average" json:"rating_average"`
	TotalReviews  int64     `bson:"total_reviews" json:"total_reviews"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// CoverImage returns the designated cover (first) image, or "" when the
// product has no images yet.
func (p *Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Category is a static reference list, read-only for the application.
type Category struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}
