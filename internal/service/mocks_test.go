package service

import (
	"context"
	"sync"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/cache"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
)

// In-memory mocks mirroring the MongoDB repositories' semantics, including
// the merge-on-add cart behavior, CAS status updates and running-mean
// aggregate application.

type mockCartRepo struct {
	m     sync.Mutex
	carts map[string]*domain.Cart
	err   error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *mockCartRepo) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	cart, ok := r.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *mockCartRepo) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	cart, ok := r.carts[userID]
	if !ok {
		cart = &domain.Cart{UserID: userID, CreatedAt: time.Now()}
		r.carts[userID] = cart
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

func (r *mockCartRepo) UpdateItemQuantity(_ context.Context, userID, productID string, quantity int) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	cart, ok := r.carts[userID]
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

func (r *mockCartRepo) RemoveItem(_ context.Context, userID, productID string) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	cart, ok := r.carts[userID]
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

func (r *mockCartRepo) DeleteCart(_ context.Context, userID string) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(r.carts, userID)
	return nil
}

func (r *mockCartRepo) quantity(userID, productID string) int {
	r.m.Lock()
	defer r.m.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return 0
	}
	for _, item := range cart.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

func (r *mockCartRepo) lineCount(userID string) int {
	r.m.Lock()
	defer r.m.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return 0
	}
	return len(cart.Items)
}

type mockProductRepo struct {
	m        sync.Mutex
	products map[string]*domain.Product
	err      error
	stockErr error
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	r := &mockProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		copied := *p
		r.products[p.ID] = &copied
	}
	return r
}

func (r *mockProductRepo) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *mockProductRepo) ListProducts(_ context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var result []*domain.Product
	for _, p := range r.products {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if filter.OnlyAvailable && !p.Available {
			continue
		}
		copied := *p
		result = append(result, &copied)
	}
	return result, nil
}

func (r *mockProductRepo) CreateProduct(_ context.Context, p *domain.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *mockProductRepo) UpdateProduct(_ context.Context, p *domain.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *mockProductRepo) SetAvailability(_ context.Context, id string, available bool) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	p, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Available = available
	return nil
}

func (r *mockProductRepo) ApplyReview(_ context.Context, id string, rating int) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	p, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.RatingSum += float64(rating)
	p.TotalReviews++
	p.RatingAverage = p.RatingSum / float64(p.TotalReviews)
	return nil
}

func (r *mockProductRepo) DecrementStock(_ context.Context, id string, quantity int) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.stockErr != nil {
		return r.stockErr
	}
	p, ok := r.products[id]
	if !ok || p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (r *mockProductRepo) get(id string) *domain.Product {
	r.m.Lock()
	defer r.m.Unlock()
	p := r.products[id]
	copied := *p
	return &copied
}

type mockOrderRepo struct {
	m           sync.Mutex
	orders      map[string]*domain.Order
	items       []domain.OrderItem
	createErr   error
	failOnNth   int // fail the Nth CreateOrder call (1-based); 0 disables
	createCalls int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.createCalls++
	if r.createErr != nil && (r.failOnNth == 0 || r.createCalls == r.failOnNth) {
		return r.createErr
	}
	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return repository.ErrDuplicateOrderNumber
		}
		if existing.CheckoutToken == order.CheckoutToken && existing.SellerID == order.SellerID {
			return repository.ErrDuplicateOrder
		}
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *mockOrderRepo) GetOrderByTokenSeller(_ context.Context, token, sellerID string) (*domain.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	for _, order := range r.orders {
		if order.CheckoutToken == token && order.SellerID == sellerID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (r *mockOrderRepo) CreateOrderItems(_ context.Context, items []domain.OrderItem) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.items = append(r.items, items...)
	return nil
}

func (r *mockOrderRepo) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *mockOrderRepo) ListOrderItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var result []domain.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *mockOrderRepo) ListOrdersByBuyer(_ context.Context, buyerID string) ([]*domain.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var result []*domain.Order
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			copied := *order
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *mockOrderRepo) ListOrdersBySeller(_ context.Context, sellerID string) ([]*domain.Order, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var result []*domain.Order
	for _, order := range r.orders {
		if order.SellerID == sellerID {
			copied := *order
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *mockOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	r.m.Lock()
	defer r.m.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Status != from {
		return repository.ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	return nil
}

func (r *mockOrderRepo) SetPaymentStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	r.m.Lock()
	defer r.m.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.PaymentStatus = status
	return nil
}

func (r *mockOrderRepo) get(id string) *domain.Order {
	r.m.Lock()
	defer r.m.Unlock()
	copied := *r.orders[id]
	return &copied
}

func (r *mockOrderRepo) orderCount() int {
	r.m.Lock()
	defer r.m.Unlock()
	return len(r.orders)
}

type mockReviewRepo struct {
	m       sync.Mutex
	reviews []*domain.Review
	err     error
}

func (r *mockReviewRepo) CreateReview(_ context.Context, review *domain.Review) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.reviews {
		if existing.OrderID == review.OrderID && existing.ProductID == review.ProductID {
			return repository.ErrDuplicateReview
		}
	}
	copied := *review
	r.reviews = append(r.reviews, &copied)
	return nil
}

func (r *mockReviewRepo) ListReviewsByProduct(_ context.Context, productID string, _ int64) ([]*domain.Review, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var result []*domain.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			copied := *review
			result = append(result, &copied)
		}
	}
	return result, nil
}

type mockSellerRepo struct {
	m       sync.Mutex
	sellers map[string]*domain.Seller
	err     error
}

func newMockSellerRepo(sellers ...*domain.Seller) *mockSellerRepo {
	r := &mockSellerRepo{sellers: make(map[string]*domain.Seller)}
	for _, s := range sellers {
		copied := *s
		r.sellers[s.ID] = &copied
	}
	return r
}

func (r *mockSellerRepo) GetSeller(_ context.Context, id string) (*domain.Seller, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.sellers[id]
	if !ok {
		return nil, repository.ErrSellerNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *mockSellerRepo) GetSellerByUser(_ context.Context, userID string) (*domain.Seller, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.sellers {
		if s.UserID == userID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrSellerNotFound
}

func (r *mockSellerRepo) CreateSeller(_ context.Context, s *domain.Seller) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	copied := *s
	r.sellers[s.ID] = &copied
	return nil
}

func (r *mockSellerRepo) UpdateVerification(_ context.Context, id string, to domain.VerificationStatus) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	s, ok := r.sellers[id]
	if !ok {
		return repository.ErrSellerNotFound
	}
	if s.VerificationStatus != domain.VerificationPending {
		return repository.ErrVerificationFinal
	}
	s.VerificationStatus = to
	return nil
}

func (r *mockSellerRepo) ApplyReview(_ context.Context, id string, rating int) error {
	r.m.Lock()
	defer r.m.Unlock()
	s, ok := r.sellers[id]
	if !ok {
		return repository.ErrSellerNotFound
	}
	s.RatingSum += float64(rating)
	s.TotalReviews++
	s.RatingAverage = s.RatingSum / float64(s.TotalReviews)
	return nil
}

func (r *mockSellerRepo) RecordDelivery(_ context.Context, id string, amount float64) error {
	r.m.Lock()
	defer r.m.Unlock()
	s, ok := r.sellers[id]
	if !ok {
		return repository.ErrSellerNotFound
	}
	s.TotalOrders++
	s.TotalEarnings += amount
	return nil
}

func (r *mockSellerRepo) get(id string) *domain.Seller {
	r.m.Lock()
	defer r.m.Unlock()
	copied := *r.sellers[id]
	return &copied
}

type mockUserRepo struct {
	m     sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	r := &mockUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		copied := *u
		r.users[u.ID] = &copied
	}
	return r
}

func (r *mockUserRepo) GetUser(_ context.Context, id string) (*domain.User, error) {
	r.m.Lock()
	defer r.m.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *mockUserRepo) EnsureUser(_ context.Context, u *domain.User) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		copied := *u
		r.users[u.ID] = &copied
	}
	return nil
}

func (r *mockUserRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	r.m.Lock()
	defer r.m.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	return nil
}

type mockCheckoutRepo struct {
	m        sync.Mutex
	sessions map[string]*domain.CheckoutSession
	err      error
}

func newMockCheckoutRepo() *mockCheckoutRepo {
	return &mockCheckoutRepo{sessions: make(map[string]*domain.CheckoutSession)}
}

func (r *mockCheckoutRepo) GetSession(_ context.Context, token string) (*domain.CheckoutSession, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.sessions[token]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *s
	copied.OrderIDs = append([]string(nil), s.OrderIDs...)
	return &copied, nil
}

func (r *mockCheckoutRepo) CreateSession(_ context.Context, s *domain.CheckoutSession) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.sessions[s.Token]; ok {
		return repository.ErrSessionExists
	}
	copied := *s
	r.sessions[s.Token] = &copied
	return nil
}

func (r *mockCheckoutRepo) CompleteSession(_ context.Context, token string, orderIDs []string) error {
	r.m.Lock()
	defer r.m.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return repository.ErrSessionNotFound
	}
	s.Status = domain.CheckoutStatusCompleted
	s.OrderIDs = append([]string(nil), orderIDs...)
	return nil
}

func (r *mockCheckoutRepo) FailSession(_ context.Context, token, reason string) error {
	r.m.Lock()
	defer r.m.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return repository.ErrSessionNotFound
	}
	s.Status = domain.CheckoutStatusFailed
	s.FailReason = reason
	return nil
}

func (r *mockCheckoutRepo) FailStuckSessions(_ context.Context, cutoff time.Time) (int64, error) {
	r.m.Lock()
	defer r.m.Unlock()
	var failed int64
	for _, s := range r.sessions {
		if s.Status == domain.CheckoutStatusInProgress && s.UpdatedAt.Before(cutoff) {
			s.Status = domain.CheckoutStatusFailed
			s.FailReason = "checkout interrupted"
			failed++
		}
	}
	return failed, nil
}

func (r *mockCheckoutRepo) get(token string) *domain.CheckoutSession {
	r.m.Lock()
	defer r.m.Unlock()
	copied := *r.sessions[token]
	return &copied
}

type mockOutbox struct {
	m      sync.Mutex
	events []*repository.OutboxEvent
}

func (r *mockOutbox) Append(_ context.Context, event *repository.OutboxEvent) error {
	r.m.Lock()
	defer r.m.Unlock()
	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

func (r *mockOutbox) ListUnprocessed(context.Context, int64) ([]*repository.OutboxEvent, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return append([]*repository.OutboxEvent(nil), r.events...), nil
}

func (r *mockOutbox) MarkProcessed(_ context.Context, id string) error {
	r.m.Lock()
	defer r.m.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Processed = true
		}
	}
	return nil
}

func (r *mockOutbox) types() []string {
	r.m.Lock()
	defer r.m.Unlock()
	var result []string
	for _, e := range r.events {
		result = append(result, e.EventType)
	}
	return result
}

type mockCategoryRepo struct {
	categories []*domain.Category
}

func (r *mockCategoryRepo) ListCategories(context.Context) ([]*domain.Category, error) {
	return append([]*domain.Category(nil), r.categories...), nil
}

type mockProductCache struct {
	m        sync.Mutex
	products map[string]*domain.Product
	listings map[string][]*domain.Product
}

func newMockProductCache() *mockProductCache {
	return &mockProductCache{
		products: make(map[string]*domain.Product),
		listings: make(map[string][]*domain.Product),
	}
}

func (c *mockProductCache) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	c.m.Lock()
	defer c.m.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	copied := *p
	return &copied, nil
}

func (c *mockProductCache) SetProduct(_ context.Context, product *domain.Product) error {
	c.m.Lock()
	defer c.m.Unlock()
	copied := *product
	c.products[product.ID] = &copied
	return nil
}

func (c *mockProductCache) DeleteProduct(_ context.Context, id string) error {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.products, id)
	return nil
}

func (c *mockProductCache) GetListing(_ context.Context, key string) ([]*domain.Product, error) {
	c.m.Lock()
	defer c.m.Unlock()
	listing, ok := c.listings[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return append([]*domain.Product(nil), listing...), nil
}

func (c *mockProductCache) SetListing(_ context.Context, key string, products []*domain.Product) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.listings[key] = append([]*domain.Product(nil), products...)
	return nil
}

func (c *mockProductCache) DeleteListings(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.listings = make(map[string][]*domain.Product)
	return nil
}

func (c *mockProductCache) hasProduct(id string) bool {
	c.m.Lock()
	defer c.m.Unlock()
	_, ok := c.products[id]
	return ok
}

func (c *mockProductCache) hasListing(key string) bool {
	c.m.Lock()
	defer c.m.Unlock()
	_, ok := c.listings[key]
	return ok
}
