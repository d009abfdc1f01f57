package domain

import "time"

// Review is immutable once created: no edit or delete path. One review per
// (order, product) pair, enforced by the store.
type Review struct {
	ID        string    `bson:"_id" json:"id"`
	OrderID   string    `bson:"order_id" json:"order_id"`
	ProductID string    `bson:"product_id" json:"product_id"`
	SellerID  string    `bson:"seller_id" json:"seller_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
