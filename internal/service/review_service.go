package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/events"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/google/uuid"
)

// LineRating is one per-line review in a submission.
type LineRating struct {
	ProductID string
	Rating    int
	Comment   string
}

type ReviewService struct {
	orders   repository.OrderRepository
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	sellers  repository.SellerRepository
	outbox   repository.OutboxRepository
}

func NewReviewService(
	orders repository.OrderRepository,
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	sellers repository.SellerRepository,
	outbox repository.OutboxRepository,
) *ReviewService {
	return &ReviewService{
		orders:   orders,
		reviews:  reviews,
		products: products,
		sellers:  sellers,
		outbox:   outbox,
	}
}

// SubmitReviews creates one review per rated line of a delivered order. A
// second submission for the same line is rejected (ErrDuplicateReview), so
// aggregates can never be double-counted. Each accepted review folds into
// the product's and the seller's running averages atomically.
func (s *ReviewService) SubmitReviews(ctx context.Context, session identity.Session, orderID string, ratings []LineRating) ([]*domain.Review, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != session.UserID {
		return nil, ErrNotOrderBuyer
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, ErrOrderNotDelivered
	}

	items, err := s.orders.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	inOrder := make(map[string]bool, len(items))
	for _, item := range items {
		inOrder[item.ProductID] = true
	}

	// Validate the whole submission before the first write.
	for _, rating := range ratings {
		if rating.Rating < 1 || rating.Rating > 5 {
			return nil, ErrInvalidRating
		}
		if !inOrder[rating.ProductID] {
			return nil, ErrProductNotInOrder
		}
	}

	var created []*domain.Review
	for _, rating := range ratings {
		review := &domain.Review{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: rating.ProductID,
			SellerID:  order.SellerID,
			UserID:    session.UserID,
			Rating:    rating.Rating,
			Comment:   rating.Comment,
		}

		if err := s.reviews.CreateReview(ctx, review); err != nil {
			// Fail-fast; reviews already created stay, their aggregates are
			// already applied and consistent.
			return created, err
		}

		if err := s.products.ApplyReview(ctx, rating.ProductID, rating.Rating); err != nil {
			log.Printf("failed to apply review %v to product %v: %v", review.ID, rating.ProductID, err)
		}
		if err := s.sellers.ApplyReview(ctx, order.SellerID, rating.Rating); err != nil {
			log.Printf("failed to apply review %v to seller %v: %v", review.ID, order.SellerID, err)
		}

		s.appendReviewSubmitted(ctx, review)
		created = append(created, review)
	}

	return created, nil
}

func (s *ReviewService) ListProductReviews(ctx context.Context, productID string, limit int64) ([]*domain.Review, error) {
	return s.reviews.ListReviewsByProduct(ctx, productID, limit)
}

func (s *ReviewService) appendReviewSubmitted(ctx context.Context, review *domain.Review) {
	payload, err := json.Marshal(events.ReviewSubmitted{
		ReviewID:  review.ID,
		OrderID:   review.OrderID,
		ProductID: review.ProductID,
		SellerID:  review.SellerID,
		Rating:    review.Rating,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal review submitted event: %v", err)
		return
	}

	errAppend := s.outbox.Append(ctx, &repository.OutboxEvent{
		ID:          uuid.NewString(),
		AggregateID: review.ProductID,
		EventType:   events.TypeReviewSubmitted,
		Payload:     payload,
	})
	if errAppend != nil {
		log.Printf("failed to append review submitted event for %v: %v", review.ID, errAppend)
	}
}
