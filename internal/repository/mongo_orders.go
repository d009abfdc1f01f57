package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOrderRepository struct {
	orders     *mongo.Collection
	orderItems *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		orders:     db.Collection("orders"),
		orderItems: db.Collection("orderItems"),
	}
}

func (m *mongoOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := m.orders.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Two unique indexes can fire here; the error message names the
			// violated one.
			if strings.Contains(err.Error(), "order_number") {
				return ErrDuplicateOrderNumber
			}
			return ErrDuplicateOrder
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) GetOrderByTokenSeller(ctx context.Context, token, sellerID string) (*domain.Order, error) {
	var order domain.Order

	filter := bson.M{"checkout_token": token, "seller_id": sellerID}
	err := m.orders.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by checkout token: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) CreateOrderItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, len(items))
	for i := range items {
		items[i].CreatedAt = now
		docs[i] = items[i]
	}

	if _, err := m.orderItems.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order

	err := m.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := m.orderItems.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}

	return items, nil
}

func (m *mongoOrderRepository) ListOrdersByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	return m.listOrders(ctx, bson.M{"buyer_id": buyerID})
}

func (m *mongoOrderRepository) ListOrdersBySeller(ctx context.Context, sellerID string) ([]*domain.Order, error) {
	return m.listOrders(ctx, bson.M{"seller_id": sellerID})
}

func (m *mongoOrderRepository) listOrders(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus is a compare-and-swap: the filter pins the status the caller
// observed, so a transition that raced ahead leaves nothing to match and the
// caller gets ErrStatusConflict instead of silently overwriting it.
func (m *mongoOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}}

	result, err := m.orders.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		// Either the order is gone or someone moved it first.
		if _, getErr := m.GetOrder(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusConflict
	}
	return nil
}

func (m *mongoOrderRepository) SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	update := bson.M{"$set": bson.M{
		"payment_status": status,
		"updated_at":     time.Now(),
	}}

	result, err := m.orders.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set payment status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *mongoOrderRepository) CreateIndexes(ctx context.Context) error {
	orderIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "checkout_token", Value: 1}, {Key: "seller_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := m.orders.Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	itemIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}},
	}
	if _, err := m.orderItems.Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create order item indexes: %w", err)
	}
	return nil
}
