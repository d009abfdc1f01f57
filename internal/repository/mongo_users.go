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

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{
		collection: db.Collection("users"),
	}
}

func (m *mongoUserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// EnsureUser upserts the profile: first login creates it, later logins only
// refresh email and display name from the identity provider.
func (m *mongoUserRepository) EnsureUser(ctx context.Context, u *domain.User) error {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"email":      u.Email,
			"name":       u.Name,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"role":       u.Role,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": u.ID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (m *mongoUserRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	update := bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

type mongoSellerRepository struct {
	collection *mongo.Collection
}

func NewMongoSellerRepository(db *mongo.Database) SellerRepository {
	return &mongoSellerRepository{
		collection: db.Collection("sellers"),
	}
}

func (m *mongoSellerRepository) GetSeller(ctx context.Context, id string) (*domain.Seller, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoSellerRepository) GetSellerByUser(ctx context.Context, userID string) (*domain.Seller, error) {
	return m.findOne(ctx, bson.M{"user_id": userID})
}

func (m *mongoSellerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Seller, error) {
	var seller domain.Seller

	err := m.collection.FindOne(ctx, filter).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}

	return &seller, nil
}

func (m *mongoSellerRepository) CreateSeller(ctx context.Context, s *domain.Seller) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to create seller: %w", err)
	}
	return nil
}

// UpdateVerification only matches sellers still pending, so a decided
// verification cannot be flipped by a second admin action.
func (m *mongoSellerRepository) UpdateVerification(ctx context.Context, id string, to domain.VerificationStatus) error {
	filter := bson.M{"_id": id, "verification_status": domain.VerificationPending}
	update := bson.M{"$set": bson.M{
		"verification_status": to,
		"updated_at":          time.Now(),
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, getErr := m.GetSeller(ctx, id); getErr != nil {
			return getErr
		}
		return ErrVerificationFinal
	}
	return nil
}

// ApplyReview mirrors the product-side aggregate update: one pipeline write
// moves sum, count and the derived average together.
func (m *mongoSellerRepository) ApplyReview(ctx context.Context, id string, rating int) error {
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"rating_sum":    bson.M{"$add": bson.A{"$rating_sum", rating}},
			"total_reviews": bson.M{"$add": bson.A{"$total_reviews", 1}},
			"rating_average": bson.M{"$divide": bson.A{
				bson.M{"$add": bson.A{"$rating_sum", rating}},
				bson.M{"$add": bson.A{"$total_reviews", 1}},
			}},
			"updated_at": "$$NOW",
		}},
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply review to seller: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSellerNotFound
	}
	return nil
}

func (m *mongoSellerRepository) RecordDelivery(ctx context.Context, id string, amount float64) error {
	update := bson.M{
		"$inc": bson.M{
			"total_orders":   1,
			"total_earnings": amount,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSellerNotFound
	}
	return nil
}

func (m *mongoSellerRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "verification_status", Value: 1}}},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create seller indexes: %w", err)
	}
	return nil
}
