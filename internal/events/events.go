package events

import "time"

// Event types carried through the outbox to Kafka.
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
	TypeReviewSubmitted    = "review.submitted"
	TypeSellerVerified     = "seller.verification_changed"
)

type OrderPlaced struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	BuyerID     string    `json:"buyer_id"`
	SellerID    string    `json:"seller_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	PlacedAt    time.Time `json:"placed_at"`
}

type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	SellerID  string    `json:"seller_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

type ReviewSubmitted struct {
	ReviewID  string    `json:"review_id"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	SellerID  string    `json:"seller_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type SellerVerificationChanged struct {
	SellerID  string    `json:"seller_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}
