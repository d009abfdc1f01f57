package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCheckoutRepository struct {
	collection *mongo.Collection
}

func NewMongoCheckoutRepository(db *mongo.Database) CheckoutRepository {
	return &mongoCheckoutRepository{
		collection: db.Collection("checkoutSessions"),
	}
}

func (m *mongoCheckoutRepository) GetSession(ctx context.Context, token string) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession

	err := m.collection.FindOne(ctx, bson.M{"_id": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	return &session, nil
}

// CreateSession inserts the in-progress marker. The token is the document id,
// so two concurrent checkouts with the same token collide here and only one
// proceeds.
func (m *mongoCheckoutRepository) CreateSession(ctx context.Context, s *domain.CheckoutSession) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := m.collection.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSessionExists
		}
		return fmt.Errorf("failed to create checkout session: %w", err)
	}
	return nil
}

func (m *mongoCheckoutRepository) CompleteSession(ctx context.Context, token string, orderIDs []string) error {
	update := bson.M{"$set": bson.M{
		"status":     domain.CheckoutStatusCompleted,
		"order_ids":  orderIDs,
		"updated_at": time.Now(),
	}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": token}, update)
	if err != nil {
		return fmt.Errorf("failed to complete checkout session: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (m *mongoCheckoutRepository) FailSession(ctx context.Context, token, reason string) error {
	update := bson.M{"$set": bson.M{
		"status":      domain.CheckoutStatusFailed,
		"fail_reason": reason,
		"updated_at":  time.Now(),
	}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": token}, update)
	if err != nil {
		return fmt.Errorf("failed to fail checkout session: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (m *mongoCheckoutRepository) FailStuckSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status":     domain.CheckoutStatusInProgress,
		"updated_at": bson.M{"$lt": cutoff},
	}
	update := bson.M{"$set": bson.M{
		"status":      domain.CheckoutStatusFailed,
		"fail_reason": "checkout interrupted",
		"updated_at":  time.Now(),
	}}

	result, err := m.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to fail stuck checkout sessions: %w", err)
	}
	return result.ModifiedCount, nil
}

func (m *mongoCheckoutRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(7 * 24 * 60 * 60), // 7 days TTL
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create checkout session indexes: %w", err)
	}
	return nil
}

type mongoOutboxRepository struct {
	collection *mongo.Collection
}

func NewMongoOutboxRepository(db *mongo.Database) OutboxRepository {
	return &mongoOutboxRepository{
		collection: db.Collection("outbox"),
	}
}

func (m *mongoOutboxRepository) Append(ctx context.Context, event *OutboxEvent) error {
	event.CreatedAt = time.Now()

	if _, err := m.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}
	return nil
}

func (m *mongoOutboxRepository) ListUnprocessed(ctx context.Context, limit int64) ([]*OutboxEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)

	cursor, err := m.collection.Find(ctx, bson.M{"processed": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*OutboxEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode outbox events: %w", err)
	}

	return events, nil
}

func (m *mongoOutboxRepository) MarkProcessed(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"processed": true}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark event as processed: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("outbox event not found")
	}
	return nil
}

func (m *mongoOutboxRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "processed", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create outbox indexes: %w", err)
	}
	return nil
}
