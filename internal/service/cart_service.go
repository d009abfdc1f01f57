package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// AddToCart merges into the existing line for (user, product): repeated adds
// sum their quantities, the cart never holds two lines for one product.
func (s *CartService) AddToCart(ctx context.Context, session identity.Session, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if !product.Available {
		return ErrProductUnavailable
	}

	errAdd := s.carts.AddItem(ctx, session.UserID, domain.CartItem{
		ProductID: productID,
		Quantity:  quantity,
	})
	if errAdd != nil {
		log.Printf("repo add item error: %v", errAdd)
		return errAdd
	}
	return nil
}

// UpdateQuantity overwrites the line's quantity. Values below 1 are rejected
// and the stored quantity stays untouched.
func (s *CartService) UpdateQuantity(ctx context.Context, session identity.Session, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	errUpdate := s.carts.UpdateItemQuantity(ctx, session.UserID, productID, quantity)
	if errUpdate != nil {
		log.Printf("repo update item quantity error: %v", errUpdate)
		return errUpdate
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, session identity.Session, productID string) error {
	errRemove := s.carts.RemoveItem(ctx, session.UserID, productID)
	if errRemove != nil {
		log.Printf("repo remove item error: %v", errRemove)
		return errRemove
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, session identity.Session) error {
	errDelete := s.carts.DeleteCart(ctx, session.UserID)
	if errDelete != nil {
		log.Printf("repo delete cart error: %v", errDelete)
		return errDelete
	}
	return nil
}

// ListCart joins cart lines with their live products. Prices shown here are
// the product's current prices, which can differ from the price charged at
// checkout. Lines whose product has been removed are dropped from the view.
func (s *CartService) ListCart(ctx context.Context, session identity.Session) ([]domain.CartLine, error) {
	cart, err := s.carts.GetCart(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, nil
		}
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, errGet := s.products.GetProduct(ctx, item.ProductID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrProductNotFound) {
				log.Printf("cart of user %s references missing product %s", session.UserID, item.ProductID)
				continue
			}
			return nil, errGet
		}
		lines = append(lines, domain.CartLine{Item: item, Product: *product})
	}

	return lines, nil
}
