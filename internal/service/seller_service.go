package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/events"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/google/uuid"
)

type SellerService struct {
	sellers repository.SellerRepository
	users   repository.UserRepository
	outbox  repository.OutboxRepository
}

func NewSellerService(sellers repository.SellerRepository, users repository.UserRepository, outbox repository.OutboxRepository) *SellerService {
	return &SellerService{
		sellers: sellers,
		users:   users,
		outbox:  outbox,
	}
}

// RegisterSeller creates the seller profile in the pending state alongside
// the user's role change. Products become visible only after an admin
// approves the seller.
func (s *SellerService) RegisterSeller(ctx context.Context, session identity.Session, shopName, description string) (*domain.Seller, error) {
	if _, err := s.sellers.GetSellerByUser(ctx, session.UserID); err == nil {
		return nil, ErrSellerExists
	} else if !errors.Is(err, repository.ErrSellerNotFound) {
		return nil, err
	}

	seller := &domain.Seller{
		ID:                 uuid.NewString(),
		UserID:             session.UserID,
		ShopName:           shopName,
		Description:        description,
		VerificationStatus: domain.VerificationPending,
	}
	if err := s.sellers.CreateSeller(ctx, seller); err != nil {
		return nil, err
	}

	if err := s.users.SetRole(ctx, session.UserID, domain.RoleSeller); err != nil {
		return nil, fmt.Errorf("seller created but role not updated: %w", err)
	}

	return seller, nil
}

func (s *SellerService) GetSeller(ctx context.Context, sellerID string) (*domain.Seller, error) {
	return s.sellers.GetSeller(ctx, sellerID)
}

func (s *SellerService) GetOwnSeller(ctx context.Context, session identity.Session) (*domain.Seller, error) {
	return s.sellers.GetSellerByUser(ctx, session.UserID)
}

// SetVerification is the administrative gate: pending -> approved or
// pending -> rejected, both final. Re-deciding an already decided seller is
// rejected at the store.
func (s *SellerService) SetVerification(ctx context.Context, session identity.Session, sellerID string, decision domain.VerificationStatus) error {
	if !session.IsAdmin() {
		return ErrAdminOnly
	}
	if decision != domain.VerificationApproved && decision != domain.VerificationRejected {
		return ErrInvalidVerification
	}

	if err := s.sellers.UpdateVerification(ctx, sellerID, decision); err != nil {
		return err
	}

	s.appendVerificationChanged(ctx, sellerID, decision)
	return nil
}

func (s *SellerService) appendVerificationChanged(ctx context.Context, sellerID string, decision domain.VerificationStatus) {
	payload, err := json.Marshal(events.SellerVerificationChanged{
		SellerID:  sellerID,
		Status:    decision.String(),
		ChangedAt: time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal verification event: %v", err)
		return
	}

	errAppend := s.outbox.Append(ctx, &repository.OutboxEvent{
		ID:          uuid.NewString(),
		AggregateID: sellerID,
		EventType:   events.TypeSellerVerified,
		Payload:     payload,
	})
	if errAppend != nil {
		log.Printf("failed to append verification event for %v: %v", sellerID, errAppend)
	}
}
