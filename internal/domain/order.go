package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// next holds the single forward transition for each non-terminal status.
var next = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusDelivered,
}

// Next returns the only legal forward transition from s. ok is false for
// terminal and unknown statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := next[s]
	return n, ok
}

// CanTransitionTo reports whether s -> to is a legal transition. The happy
// path is strictly forward one stage at a time; cancellation is allowed only
// before preparation starts.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return s == OrderStatusPending || s == OrderStatusConfirmed
	}
	n, ok := next[s]
	return ok && n == to
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentMethodOnline         PaymentMethod = "online"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodOnline || m == PaymentMethodCashOnDelivery
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Order is a snapshot of a purchase scoped to exactly one seller. Buyer
// contact fields are copied at checkout, not referenced, so later profile
// edits do not rewrite order history. Only Status and PaymentStatus mutate
// after creation.
type Order struct {
	ID              string        `bson:"_id" json:"id"`
	OrderNumber     string        `bson:"order_number" json:"order_number"`
	CheckoutToken   string        `bson:"checkout_token" json:"-"`
	BuyerID         string        `bson:"buyer_id" json:"buyer_id"`
	SellerID        string        `bson:"seller_id" json:"seller_id"`
	BuyerName       string        `bson:"buyer_name" json:"buyer_name"`
	DeliveryAddress string        `bson:"delivery_address" json:"delivery_address"`
	Phone           string        `bson:"phone" json:"phone"`
	TotalAmount     float64       `bson:"total_amount" json:"total_amount"`
	Status          OrderStatus   `bson:"status" json:"status"`
	PaymentMethod   PaymentMethod `bson:"payment_method" json:"payment_method"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"payment_status"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// OrderItem is an immutable line snapshot. Title and price are copied from
// the product at order creation and never re-derived, so product edits do
// not alter order history.
type OrderItem struct {
	ID           string    `bson:"_id" json:"id"`
	OrderID      string    `bson:"order_id" json:"order_id"`
	ProductID    string    `bson:"product_id" json:"product_id"`
	ProductTitle string    `bson:"product_title" json:"product_title"`
	ProductPrice float64   `bson:"product_price" json:"product_price"`
	Quantity     int       `bson:"quantity" json:"quantity"`
	Subtotal     float64   `bson:"subtotal" json:"subtotal"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
