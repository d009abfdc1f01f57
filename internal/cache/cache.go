package cache

import (
	"context"
	"errors"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
)

// ProductCache fronts catalog reads. Listings are cached per category key;
// "" is the whole-catalog key.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetListing(ctx context.Context, key string) ([]*domain.Product, error)
	SetListing(ctx context.Context, key string, products []*domain.Product) error
	DeleteListings(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
