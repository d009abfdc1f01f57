package domain

import "time"

type CheckoutStatus string

const (
	CheckoutStatusInProgress CheckoutStatus = "in_progress"
	CheckoutStatusCompleted  CheckoutStatus = "completed"
	CheckoutStatusFailed     CheckoutStatus = "failed"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

func (s CheckoutStatus) String() string {
	return string(s)
}

// CartSnapshotItem is one cart line with the price captured at checkout time.
type CartSnapshotItem struct {
	ProductID    string  `bson:"product_id" json:"product_id"`
	SellerID     string  `bson:"seller_id" json:"seller_id"`
	ProductTitle string  `bson:"product_title" json:"product_title"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	UnitPrice    float64 `bson:"unit_price" json:"unit_price"`
	Subtotal     float64 `bson:"subtotal" json:"subtotal"`
}

// CheckoutSession makes cart-to-order conversion idempotent. It is keyed by
// a client-generated token: a retry with the same token after a partial
// failure resumes instead of duplicating orders or losing cart items. The
// cart is cleared only once the session completes.
type CheckoutSession struct {
	Token      string             `bson:"_id" json:"token"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Status     CheckoutStatus     `bson:"status" json:"status"`
	Snapshot   []CartSnapshotItem `bson:"snapshot" json:"snapshot"`
	OrderIDs   []string           `bson:"order_ids" json:"order_ids"`
	FailReason string             `bson:"fail_reason,omitempty" json:"fail_reason,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
