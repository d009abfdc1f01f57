package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/events"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/google/uuid"
)

type OrderService struct {
	orders  repository.OrderRepository
	sellers repository.SellerRepository
	outbox  repository.OutboxRepository
}

func NewOrderService(orders repository.OrderRepository, sellers repository.SellerRepository, outbox repository.OutboxRepository) *OrderService {
	return &OrderService{
		orders:  orders,
		sellers: sellers,
		outbox:  outbox,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, session identity.Session, orderID string) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.authorizeView(ctx, session, order); err != nil {
		return nil, nil, err
	}

	items, err := s.orders.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

func (s *OrderService) ListBuyerOrders(ctx context.Context, session identity.Session) ([]*domain.Order, error) {
	return s.orders.ListOrdersByBuyer(ctx, session.UserID)
}

func (s *OrderService) ListSellerOrders(ctx context.Context, session identity.Session) ([]*domain.Order, error) {
	seller, err := s.callerSeller(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.orders.ListOrdersBySeller(ctx, seller.ID)
}

// AdvanceStatus moves the order one stage forward along
// pending -> confirmed -> preparing -> ready -> delivered. Only the single
// next transition is ever legal; terminal orders reject any change. The
// write is a compare-and-swap, so two sellers clicking at once cannot skip
// a stage.
func (s *OrderService) AdvanceStatus(ctx context.Context, session identity.Session, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFulfillment(ctx, session, order); err != nil {
		return nil, err
	}

	nextStatus, ok := order.Status.Next()
	if !ok {
		return nil, ErrOrderFinal
	}

	if err := s.transition(ctx, order, nextStatus); err != nil {
		return nil, err
	}

	if nextStatus == domain.OrderStatusDelivered {
		s.settleDelivery(ctx, order)
	}

	order.Status = nextStatus
	order.UpdatedAt = time.Now()
	return order, nil
}

// CancelOrder is a seller action and is only allowed before preparation
// starts.
func (s *OrderService) CancelOrder(ctx context.Context, session identity.Session, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeFulfillment(ctx, session, order); err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, ErrOrderFinal
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) {
		return nil, ErrCancelTooLate
	}

	if err := s.transition(ctx, order, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	return order, nil
}

func (s *OrderService) transition(ctx context.Context, order *domain.Order, to domain.OrderStatus) error {
	if err := s.orders.UpdateStatus(ctx, order.ID, order.Status, to); err != nil {
		return err
	}
	s.appendStatusChanged(ctx, order, to)
	return nil
}

// settleDelivery applies the delivery side effects: cash-on-delivery orders
// are paid at the door, and the seller's lifetime totals move. Both are
// reported-but-not-compensated on failure, matching the rest of the flow.
func (s *OrderService) settleDelivery(ctx context.Context, order *domain.Order) {
	if order.PaymentMethod == domain.PaymentMethodCashOnDelivery {
		if err := s.orders.SetPaymentStatus(ctx, order.ID, domain.PaymentStatusPaid); err != nil {
			log.Printf("failed to mark order %v as paid on delivery: %v", order.ID, err)
		}
	}
	if err := s.sellers.RecordDelivery(ctx, order.SellerID, order.TotalAmount); err != nil {
		log.Printf("failed to record delivery for seller %v: %v", order.SellerID, err)
	}
}

func (s *OrderService) authorizeView(ctx context.Context, session identity.Session, order *domain.Order) error {
	if session.IsAdmin() || order.BuyerID == session.UserID {
		return nil
	}
	if session.IsSeller() {
		seller, err := s.callerSeller(ctx, session)
		if err == nil && seller.ID == order.SellerID {
			return nil
		}
	}
	return ErrNotOrderBuyer
}

func (s *OrderService) authorizeFulfillment(ctx context.Context, session identity.Session, order *domain.Order) error {
	if session.IsAdmin() {
		return nil
	}
	seller, err := s.callerSeller(ctx, session)
	if err != nil {
		return err
	}
	if seller.ID != order.SellerID {
		return ErrNotOrderSeller
	}
	return nil
}

func (s *OrderService) callerSeller(ctx context.Context, session identity.Session) (*domain.Seller, error) {
	if !session.IsSeller() {
		return nil, ErrSellerOnly
	}
	seller, err := s.sellers.GetSellerByUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seller for user %s: %w", session.UserID, err)
	}
	return seller, nil
}

func (s *OrderService) appendStatusChanged(ctx context.Context, order *domain.Order, to domain.OrderStatus) {
	payload, err := json.Marshal(events.OrderStatusChanged{
		OrderID:   order.ID,
		SellerID:  order.SellerID,
		From:      order.Status.String(),
		To:        to.String(),
		ChangedAt: time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal status changed event: %v", err)
		return
	}

	errAppend := s.outbox.Append(ctx, &repository.OutboxEvent{
		ID:          uuid.NewString(),
		AggregateID: order.ID,
		EventType:   events.TypeOrderStatusChanged,
		Payload:     payload,
	})
	if errAppend != nil {
		log.Printf("failed to append status changed event for %v: %v", order.ID, errAppend)
	}
}
