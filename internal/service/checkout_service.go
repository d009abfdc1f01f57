package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/events"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/google/uuid"
)

const (
	orderNumberPrefix   = "CRF-"
	orderNumberAttempts = 3
)

type CheckoutRequest struct {
	Token           string
	DeliveryAddress string
	Phone           string
	PaymentMethod   domain.PaymentMethod
}

type CheckoutResult struct {
	Token  string
	Orders []*domain.Order
}

type CheckoutService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	checkout repository.CheckoutRepository
	outbox   repository.OutboxRepository
}

func NewCheckoutService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	checkout repository.CheckoutRepository,
	outbox repository.OutboxRepository,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		products: products,
		orders:   orders,
		checkout: checkout,
		outbox:   outbox,
	}
}

// PlaceOrder converts the buyer's cart into one order per seller. The whole
// conversion is keyed by a client-generated checkout token: a completed
// session replays its orders, an in-progress one is rejected, and a failed
// one is retried against the untouched cart. The cart is cleared only after
// every per-seller order has been written.
func (s *CheckoutService) PlaceOrder(ctx context.Context, session identity.Session, request CheckoutRequest) (*CheckoutResult, error) {
	if strings.TrimSpace(request.DeliveryAddress) == "" {
		return nil, ErrMissingAddress
	}
	if strings.TrimSpace(request.Phone) == "" {
		return nil, ErrMissingPhone
	}
	if !request.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if request.Token == "" {
		// Callers that do not care about retries still get a session.
		request.Token = uuid.NewString()
	}

	// Idempotency: a token that has been seen before decides the outcome
	// without touching the cart again.
	resuming := false
	existing, err := s.checkout.GetSession(ctx, request.Token)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		// Tokens are scoped to the buyer who minted them; another caller
		// can neither replay nor resume the session.
		if existing.UserID != session.UserID {
			return nil, ErrNotCheckoutOwner
		}
		switch existing.Status {
		case domain.CheckoutStatusCompleted:
			log.Printf("duplicate checkout token %v, replaying %d orders", request.Token, len(existing.OrderIDs))
			return s.replay(ctx, existing)
		case domain.CheckoutStatusInProgress:
			return nil, ErrCheckoutInProgress
		case domain.CheckoutStatusFailed:
			resuming = true
		}
	}

	snapshot, err := s.snapshotCart(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if !resuming {
		errCreate := s.checkout.CreateSession(ctx, &domain.CheckoutSession{
			Token:    request.Token,
			UserID:   session.UserID,
			Status:   domain.CheckoutStatusInProgress,
			Snapshot: snapshot,
		})
		if errCreate != nil {
			if errors.Is(errCreate, repository.ErrSessionExists) {
				return nil, ErrCheckoutInProgress
			}
			return nil, fmt.Errorf("failed to create checkout session: %w", errCreate)
		}
	}

	orders, err := s.createOrders(ctx, session, request, snapshot)
	if err != nil {
		if errFail := s.checkout.FailSession(ctx, request.Token, err.Error()); errFail != nil {
			log.Printf("failed to mark checkout session %v as failed: %v", request.Token, errFail)
		}
		return nil, err
	}

	orderIDs := make([]string, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}
	if err := s.checkout.CompleteSession(ctx, request.Token, orderIDs); err != nil {
		return nil, fmt.Errorf("orders placed but session not completed: %w", err)
	}

	// Clear the cart only now that every order exists. A failure here leaves
	// a stale cart, not lost orders; the completed session replays on retry.
	if err := s.carts.DeleteCart(ctx, session.UserID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("failed to clear cart for user %v after checkout %v: %v", session.UserID, request.Token, err)
	}

	return &CheckoutResult{Token: request.Token, Orders: orders}, nil
}

// snapshotCart captures each line with the price and title at this moment;
// these copies are what order history is built from.
func (s *CheckoutService) snapshotCart(ctx context.Context, userID string) ([]domain.CartSnapshotItem, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := make([]domain.CartSnapshotItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, errGet := s.products.GetProduct(ctx, item.ProductID)
		if errGet != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, errGet)
		}
		if !product.Available {
			return nil, fmt.Errorf("product %s: %w", product.Title, ErrProductUnavailable)
		}
		snapshot = append(snapshot, domain.CartSnapshotItem{
			ProductID:    product.ID,
			SellerID:     product.SellerID,
			ProductTitle: product.Title,
			Quantity:     item.Quantity,
			UnitPrice:    product.Price,
			Subtotal:     product.Price * float64(item.Quantity),
		})
	}

	return snapshot, nil
}

// createOrders partitions the snapshot by seller and writes one order per
// partition. Fail-fast: a store error aborts the remaining partitions and
// the caller fails the session, leaving the cart for a retry.
func (s *CheckoutService) createOrders(ctx context.Context, session identity.Session, request CheckoutRequest, snapshot []domain.CartSnapshotItem) ([]*domain.Order, error) {
	partitions, sellerOrder := partitionBySeller(snapshot)

	paymentStatus := domain.PaymentStatusPending
	if request.PaymentMethod == domain.PaymentMethodOnline {
		paymentStatus = domain.PaymentStatusPaid
	}

	var orders []*domain.Order
	for _, sellerID := range sellerOrder {
		lines := partitions[sellerID]

		// A failed earlier attempt with this token may already have written
		// this partition's order; reuse it instead of charging twice.
		existing, errGet := s.orders.GetOrderByTokenSeller(ctx, request.Token, sellerID)
		if errGet == nil {
			if err := s.ensureOrderItems(ctx, existing, lines); err != nil {
				return nil, err
			}
			orders = append(orders, existing)
			continue
		}
		if !errors.Is(errGet, repository.ErrOrderNotFound) {
			return nil, errGet
		}

		var total float64
		for _, line := range lines {
			total += line.Subtotal
		}

		order := &domain.Order{
			ID:              uuid.NewString(),
			CheckoutToken:   request.Token,
			BuyerID:         session.UserID,
			SellerID:        sellerID,
			BuyerName:       session.Name,
			DeliveryAddress: request.DeliveryAddress,
			Phone:           request.Phone,
			TotalAmount:     total,
			Status:          domain.OrderStatusPending,
			PaymentMethod:   request.PaymentMethod,
			PaymentStatus:   paymentStatus,
		}

		if err := s.reserveStock(ctx, lines); err != nil {
			return nil, err
		}
		if err := s.createOrderWithNumber(ctx, order); err != nil {
			return nil, err
		}

		items := make([]domain.OrderItem, len(lines))
		for i, line := range lines {
			items[i] = domain.OrderItem{
				ID:           uuid.NewString(),
				OrderID:      order.ID,
				ProductID:    line.ProductID,
				ProductTitle: line.ProductTitle,
				ProductPrice: line.UnitPrice,
				Quantity:     line.Quantity,
				Subtotal:     line.Subtotal,
			}
		}
		if err := s.orders.CreateOrderItems(ctx, items); err != nil {
			return nil, err
		}

		s.appendOrderPlaced(ctx, order, len(items))
		orders = append(orders, order)
	}

	return orders, nil
}

// ensureOrderItems backfills items for an order a failed attempt wrote
// without finishing. Stock was already reserved when the order was created,
// so only the missing item rows are written.
func (s *CheckoutService) ensureOrderItems(ctx context.Context, order *domain.Order, lines []domain.CartSnapshotItem) error {
	existing, err := s.orders.ListOrderItems(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to list items for order %s: %w", order.ID, err)
	}
	if len(existing) > 0 {
		return nil
	}

	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			ProductTitle: line.ProductTitle,
			ProductPrice: line.UnitPrice,
			Quantity:     line.Quantity,
			Subtotal:     line.Subtotal,
		}
	}
	if err := s.orders.CreateOrderItems(ctx, items); err != nil {
		return err
	}
	s.appendOrderPlaced(ctx, order, len(items))
	return nil
}

func (s *CheckoutService) reserveStock(ctx context.Context, lines []domain.CartSnapshotItem) error {
	for _, line := range lines {
		if err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("product %s: %w", line.ProductTitle, err)
		}
	}
	return nil
}

// createOrderWithNumber retries number generation when the store rejects a
// collision on the unique order_number index.
func (s *CheckoutService) createOrderWithNumber(ctx context.Context, order *domain.Order) error {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = newOrderNumber()
		err := s.orders.CreateOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateOrderNumber) {
			return err
		}
		log.Printf("order number collision on %v, regenerating", order.OrderNumber)
	}
	return repository.ErrDuplicateOrderNumber
}

func (s *CheckoutService) appendOrderPlaced(ctx context.Context, order *domain.Order, itemCount int) {
	payload, err := json.Marshal(events.OrderPlaced{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		TotalAmount: order.TotalAmount,
		ItemCount:   itemCount,
		PlacedAt:    time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal order placed event: %v", err)
		return
	}

	errAppend := s.outbox.Append(ctx, &repository.OutboxEvent{
		ID:          uuid.NewString(),
		AggregateID: order.ID,
		EventType:   events.TypeOrderPlaced,
		Payload:     payload,
	})
	if errAppend != nil {
		log.Printf("failed to append order placed event for %v: %v", order.ID, errAppend)
	}
}

// replay returns the orders a completed session already produced.
func (s *CheckoutService) replay(ctx context.Context, session *domain.CheckoutSession) (*CheckoutResult, error) {
	orders := make([]*domain.Order, 0, len(session.OrderIDs))
	for _, id := range session.OrderIDs {
		order, err := s.orders.GetOrder(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to replay order %s: %w", id, err)
		}
		orders = append(orders, order)
	}
	return &CheckoutResult{Token: session.Token, Orders: orders}, nil
}

// partitionBySeller groups snapshot lines by owning seller, preserving the
// order sellers first appear in the cart.
func partitionBySeller(snapshot []domain.CartSnapshotItem) (map[string][]domain.CartSnapshotItem, []string) {
	partitions := make(map[string][]domain.CartSnapshotItem)
	var sellerOrder []string
	for _, line := range snapshot {
		if _, seen := partitions[line.SellerID]; !seen {
			sellerOrder = append(sellerOrder, line.SellerID)
		}
		partitions[line.SellerID] = append(partitions[line.SellerID], line)
	}
	return partitions, sellerOrder
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return orderNumberPrefix + suffix[:10]
}
