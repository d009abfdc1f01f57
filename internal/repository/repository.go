package repository

import (
	"context"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
)

// Interfaces are defined here on the consumer side; the MongoDB
// implementations live in the mongo_*.go files.

type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	DeleteCart(ctx context.Context, userID string) error
}

// ProductFilter narrows catalog listings. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryID    string
	SellerID      string
	Search        string
	OnlyAvailable bool
	Limit         int64
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	SetAvailability(ctx context.Context, id string, available bool) error
	// ApplyReview folds one rating into the product's running aggregates in a
	// single atomic update.
	ApplyReview(ctx context.Context, id string, rating int) error
	// DecrementStock subtracts quantity only when enough stock remains.
	DecrementStock(ctx context.Context, id string, quantity int) error
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateOrderItems(ctx context.Context, items []domain.OrderItem) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	// GetOrderByTokenSeller finds the order a previous attempt of the same
	// checkout already produced for this seller.
	GetOrderByTokenSeller(ctx context.Context, token, sellerID string) (*domain.Order, error)
	ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ListOrdersByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID string) ([]*domain.Order, error)
	// UpdateStatus moves the order from exactly `from` to `to`; a concurrent
	// transition that got there first surfaces as ErrStatusConflict.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	ListReviewsByProduct(ctx context.Context, productID string, limit int64) ([]*domain.Review, error)
}

type SellerRepository interface {
	GetSeller(ctx context.Context, id string) (*domain.Seller, error)
	GetSellerByUser(ctx context.Context, userID string) (*domain.Seller, error)
	CreateSeller(ctx context.Context, s *domain.Seller) error
	// UpdateVerification only moves sellers out of pending; decided sellers
	// are final.
	UpdateVerification(ctx context.Context, id string, to domain.VerificationStatus) error
	ApplyReview(ctx context.Context, id string, rating int) error
	// RecordDelivery bumps total orders and earnings when an order reaches
	// delivered.
	RecordDelivery(ctx context.Context, id string, amount float64) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// EnsureUser creates the profile on first login and is a no-op afterwards.
	EnsureUser(ctx context.Context, u *domain.User) error
	SetRole(ctx context.Context, id string, role domain.Role) error
}

type CheckoutRepository interface {
	GetSession(ctx context.Context, token string) (*domain.CheckoutSession, error)
	CreateSession(ctx context.Context, s *domain.CheckoutSession) error
	CompleteSession(ctx context.Context, token string, orderIDs []string) error
	FailSession(ctx context.Context, token, reason string) error
	// FailStuckSessions fails every in-progress session last touched before
	// cutoff, so a checkout interrupted mid-flight becomes retryable instead
	// of blocking its token until the TTL expires. Returns the number of
	// sessions failed.
	FailStuckSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// OutboxEvent is a pending domain event awaiting publication.
type OutboxEvent struct {
	ID          string    `bson:"_id"`
	AggregateID string    `bson:"aggregate_id"`
	EventType   string    `bson:"event_type"`
	Payload     []byte    `bson:"payload"`
	Processed   bool      `bson:"processed"`
	CreatedAt   time.Time `bson:"created_at"`
}

type OutboxRepository interface {
	Append(ctx context.Context, event *OutboxEvent) error
	ListUnprocessed(ctx context.Context, limit int64) ([]*OutboxEvent, error)
	MarkProcessed(ctx context.Context, id string) error
}
