package domain

import "time"

// Cart holds one buyer's pending purchase as a single document with embedded
// lines. There is at most one line per product; re-adding a product merges
// into the existing line.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// CartLine is a cart item joined with its live product for display. Prices
// here reflect the product at view time, not the price ultimately charged.
type CartLine struct {
	Item    CartItem `json:"item"`
	Product Product  `json:"product"`
}
