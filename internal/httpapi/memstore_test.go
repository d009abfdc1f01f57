package httpapi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/cache"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
)

// memStore implements every repository interface over plain maps so the
// router tests can run full request flows without MongoDB.
type memStore struct {
	m        sync.Mutex
	carts    map[string]*domain.Cart
	products map[string]*domain.Product
	orders   map[string]*domain.Order
	items    []domain.OrderItem
	reviews  []*domain.Review
	sellers  map[string]*domain.Seller
	users    map[string]*domain.User
	sessions map[string]*domain.CheckoutSession
	events   []*repository.OutboxEvent
}

func newMemStore() *memStore {
	return &memStore{
		carts:    make(map[string]*domain.Cart),
		products: make(map[string]*domain.Product),
		orders:   make(map[string]*domain.Order),
		sellers:  make(map[string]*domain.Seller),
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.CheckoutSession),
	}
}

// --- CartRepository

func (s *memStore) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (s *memStore) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		cart = &domain.Cart{UserID: userID, CreatedAt: time.Now()}
		s.carts[userID] = cart
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	cart.Items = append(cart.Items, item)
	return nil
}

func (s *memStore) UpdateItemQuantity(_ context.Context, userID, productID string, quantity int) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return repository.ErrCartItemNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (s *memStore) RemoveItem(_ context.Context, userID, productID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return repository.ErrCartNotFound
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) DeleteCart(_ context.Context, userID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(s.carts, userID)
	return nil
}

// --- ProductRepository

func (s *memStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *memStore) ListProducts(_ context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result []*domain.Product
	for _, p := range s.products {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if filter.OnlyAvailable && !p.Available {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		copied := *p
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memStore) CreateProduct(_ context.Context, p *domain.Product) error {
	s.m.Lock()
	defer s.m.Unlock()
	copied := *p
	s.products[p.ID] = &copied
	return nil
}

func (s *memStore) UpdateProduct(_ context.Context, p *domain.Product) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *p
	s.products[p.ID] = &copied
	return nil
}

func (s *memStore) SetAvailability(_ context.Context, id string, available bool) error {
	s.m.Lock()
	defer s.m.Unlock()
	p, ok := s.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Available = available
	return nil
}

func (s *memStore) ApplyReview(_ context.Context, id string, rating int) error {
	s.m.Lock()
	defer s.m.Unlock()
	p, ok := s.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.RatingSum += float64(rating)
	p.TotalReviews++
	p.RatingAverage = p.RatingSum / float64(p.TotalReviews)
	return nil
}

func (s *memStore) DecrementStock(_ context.Context, id string, quantity int) error {
	s.m.Lock()
	defer s.m.Unlock()
	p, ok := s.products[id]
	if !ok || p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

// --- CategoryRepository

func (s *memStore) ListCategories(context.Context) ([]*domain.Category, error) {
	return []*domain.Category{{ID: "catFood", Name: "Food", Slug: "food"}}, nil
}

// --- OrderRepository

func (s *memStore) CreateOrder(_ context.Context, order *domain.Order) error {
	s.m.Lock()
	defer s.m.Unlock()
	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return repository.ErrDuplicateOrderNumber
		}
		if existing.CheckoutToken == order.CheckoutToken && existing.SellerID == order.SellerID {
			return repository.ErrDuplicateOrder
		}
	}
	copied := *order
	copied.CreatedAt = time.Now()
	s.orders[order.ID] = &copied
	return nil
}

func (s *memStore) CreateOrderItems(_ context.Context, items []domain.OrderItem) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.items = append(s.items, items...)
	return nil
}

func (s *memStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.m.Lock()
	defer s.m.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *memStore) GetOrderByTokenSeller(_ context.Context, token, sellerID string) (*domain.Order, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, order := range s.orders {
		if order.CheckoutToken == token && order.SellerID == sellerID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (s *memStore) ListOrderItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result []domain.OrderItem
	for _, item := range s.items {
		if item.OrderID == orderID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (s *memStore) ListOrdersByBuyer(_ context.Context, buyerID string) ([]*domain.Order, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result []*domain.Order
	for _, order := range s.orders {
		if order.BuyerID == buyerID {
			copied := *order
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) ListOrdersBySeller(_ context.Context, sellerID string) ([]*domain.Order, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result []*domain.Order
	for _, order := range s.orders {
		if order.SellerID == sellerID {
			copied := *order
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	s.m.Lock()
	defer s.m.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Status != from {
		return repository.ErrStatusConflict
	}
	order.Status = to
	return nil
}

func (s *memStore) SetPaymentStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	s.m.Lock()
	defer s.m.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.PaymentStatus = status
	return nil
}

// --- ReviewRepository

func (s *memStore) CreateReview(_ context.Context, review *domain.Review) error {
	s.m.Lock()
	defer s.m.Unlock()
	for _, existing := range s.reviews {
		if existing.OrderID == review.OrderID && existing.ProductID == review.ProductID {
			return repository.ErrDuplicateReview
		}
	}
	copied := *review
	s.reviews = append(s.reviews, &copied)
	return nil
}

func (s *memStore) ListReviewsByProduct(_ context.Context, productID string, _ int64) ([]*domain.Review, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result []*domain.Review
	for _, review := range s.reviews {
		if review.ProductID == productID {
			copied := *review
			result = append(result, &copied)
		}
	}
	return result, nil
}

// --- SellerRepository

func (s *memStore) GetSeller(_ context.Context, id string) (*domain.Seller, error) {
	s.m.Lock()
	defer s.m.Unlock()
	seller, ok := s.sellers[id]
	if !ok {
		return nil, repository.ErrSellerNotFound
	}
	copied := *seller
	return &copied, nil
}

func (s *memStore) GetSellerByUser(_ context.Context, userID string) (*domain.Seller, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, seller := range s.sellers {
		if seller.UserID == userID {
			copied := *seller
			return &copied, nil
		}
	}
	return nil, repository.ErrSellerNotFound
}

func (s *memStore) CreateSeller(_ context.Context, seller *domain.Seller) error {
	s.m.Lock()
	defer s.m.Unlock()
	copied := *seller
	s.sellers[seller.ID] = &copied
	return nil
}

func (s *memStore) UpdateVerification(_ context.Context, id string, to domain.VerificationStatus) error {
	s.m.Lock()
	defer s.m.Unlock()
	seller, ok := s.sellers[id]
	if !ok {
		return repository.ErrSellerNotFound
	}
	if seller.VerificationStatus != domain.VerificationPending {
		return repository.ErrVerificationFinal
	}
	seller.VerificationStatus = to
	return nil
}

// sellerView disambiguates ApplyReview, which exists with the same
// signature on both the product and the seller repository.
type sellerView struct {
	*memStore
}

func (v sellerView) ApplyReview(_ context.Context, id string, rating int) error {
	v.m.Lock()
	defer v.m.Unlock()
	seller, ok := v.sellers[id]
	if !ok {
		return repository.ErrSellerNotFound
	}
	seller.RatingSum += float64(rating)
	seller.TotalReviews++
	seller.RatingAverage = seller.RatingSum / float64(seller.TotalReviews)
	return nil
}

func (s *memStore) RecordDelivery(_ context.Context, id string, amount float64) error {
	s.m.Lock()
	defer s.m.Unlock()
	seller, ok := s.sellers[id]
	if !ok {
		return repository.ErrSellerNotFound
	}
	seller.TotalOrders++
	seller.TotalEarnings += amount
	return nil
}

// --- UserRepository

func (s *memStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.m.Lock()
	defer s.m.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memStore) EnsureUser(_ context.Context, u *domain.User) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		copied := *u
		s.users[u.ID] = &copied
	}
	return nil
}

func (s *memStore) SetRole(_ context.Context, id string, role domain.Role) error {
	s.m.Lock()
	defer s.m.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// --- CheckoutRepository

func (s *memStore) GetSession(_ context.Context, token string) (*domain.CheckoutSession, error) {
	s.m.Lock()
	defer s.m.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session
	copied.OrderIDs = append([]string(nil), session.OrderIDs...)
	return &copied, nil
}

func (s *memStore) CreateSession(_ context.Context, session *domain.CheckoutSession) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.sessions[session.Token]; ok {
		return repository.ErrSessionExists
	}
	copied := *session
	s.sessions[session.Token] = &copied
	return nil
}

func (s *memStore) CompleteSession(_ context.Context, token string, orderIDs []string) error {
	s.m.Lock()
	defer s.m.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.Status = domain.CheckoutStatusCompleted
	session.OrderIDs = append([]string(nil), orderIDs...)
	return nil
}

func (s *memStore) FailSession(_ context.Context, token, reason string) error {
	s.m.Lock()
	defer s.m.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.Status = domain.CheckoutStatusFailed
	session.FailReason = reason
	return nil
}

func (s *memStore) FailStuckSessions(_ context.Context, cutoff time.Time) (int64, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var failed int64
	for _, session := range s.sessions {
		if session.Status == domain.CheckoutStatusInProgress && session.UpdatedAt.Before(cutoff) {
			session.Status = domain.CheckoutStatusFailed
			session.FailReason = "checkout interrupted"
			failed++
		}
	}
	return failed, nil
}

// --- OutboxRepository

func (s *memStore) Append(_ context.Context, event *repository.OutboxEvent) error {
	s.m.Lock()
	defer s.m.Unlock()
	copied := *event
	s.events = append(s.events, &copied)
	return nil
}

func (s *memStore) ListUnprocessed(context.Context, int64) ([]*repository.OutboxEvent, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]*repository.OutboxEvent(nil), s.events...), nil
}

func (s *memStore) MarkProcessed(_ context.Context, id string) error {
	s.m.Lock()
	defer s.m.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			e.Processed = true
		}
	}
	return nil
}

// noopCache always misses; router tests exercise the store path.
type noopCache struct{}

func (noopCache) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, cache.ErrCacheMiss
}
func (noopCache) SetProduct(context.Context, *domain.Product) error { return nil }
func (noopCache) DeleteProduct(context.Context, string) error       { return nil }
func (noopCache) GetListing(context.Context, string) ([]*domain.Product, error) {
	return nil, cache.ErrCacheMiss
}
func (noopCache) SetListing(context.Context, string, []*domain.Product) error { return nil }
func (noopCache) DeleteListings(context.Context) error                        { return nil }
