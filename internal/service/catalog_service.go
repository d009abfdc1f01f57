package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/cache"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/domain"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	sellers    repository.SellerRepository
	cache      cache.ProductCache
	sfg        singleflight.Group // Prevents cache stampede
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	sellers repository.SellerRepository,
	productCache cache.ProductCache,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		sellers:    sellers,
		cache:      productCache,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do("product:"+id, func() (interface{}, error) {
		product, errCache := s.cache.GetProduct(ctx, id)
		if errCache == nil {
			return product, nil
		}
		if !errors.Is(errCache, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", errCache) // log cache error but continue
		}

		product, errGet := s.products.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.SetProduct(context.Background(), product); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	product := v.(*domain.Product)

	// Same gate as ListProducts: hidden products and goods of unverified
	// sellers are not reachable by ID either.
	if !product.Available {
		return nil, repository.ErrProductNotFound
	}
	seller, err := s.sellers.GetSeller(ctx, product.SellerID)
	if err != nil {
		if errors.Is(err, repository.ErrSellerNotFound) {
			return nil, repository.ErrProductNotFound
		}
		return nil, err
	}
	if seller.VerificationStatus != domain.VerificationApproved {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

// ListProducts serves the public catalog: available products of approved
// sellers only. Unsearched category listings are cached; searches always
// hit the store.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID, search string, limit int64) ([]*domain.Product, error) {
	cacheable := search == ""
	if cacheable {
		listing, errCache := s.cache.GetListing(ctx, categoryID)
		if errCache == nil {
			return listing, nil
		}
		if !errors.Is(errCache, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", errCache)
		}
	}

	v, err, _ := s.sfg.Do("catalog:"+categoryID+":"+search, func() (interface{}, error) {
		products, errList := s.products.ListProducts(ctx, repository.ProductFilter{
			CategoryID:    categoryID,
			Search:        search,
			OnlyAvailable: true,
			Limit:         limit,
		})
		if errList != nil {
			return nil, errList
		}
		return s.filterApprovedSellers(ctx, products)
	})
	if err != nil {
		return nil, err
	}
	products := v.([]*domain.Product)

	if cacheable {
		go func() {
			if errSet := s.cache.SetListing(context.Background(), categoryID, products); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()
	}

	return products, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *CatalogService) ListSellerProducts(ctx context.Context, session identity.Session) ([]*domain.Product, error) {
	seller, err := s.callerSeller(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.products.ListProducts(ctx, repository.ProductFilter{SellerID: seller.ID})
}

type ProductInput struct {
	CategoryID  string
	Title       string
	Description string
	Price       float64
	Stock       int
	Images      []string // ordered, first element is the cover
}

func (s *CatalogService) CreateProduct(ctx context.Context, session identity.Session, input ProductInput) (*domain.Product, error) {
	seller, err := s.callerSeller(ctx, session)
	if err != nil {
		return nil, err
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	product := &domain.Product{
		ID:          uuid.NewString(),
		SellerID:    seller.ID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Available:   true,
		Stock:       input.Stock,
		Images:      input.Images,
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(product.ID)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, session identity.Session, productID string, input ProductInput) (*domain.Product, error) {
	product, err := s.ownedProduct(ctx, session, productID)
	if err != nil {
		return nil, err
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	product.CategoryID = input.CategoryID
	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.Images = input.Images

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(product.ID)
	return product, nil
}

// SetAvailability toggles only the availability flag; no other field moves.
func (s *CatalogService) SetAvailability(ctx context.Context, session identity.Session, productID string, available bool) error {
	if _, err := s.ownedProduct(ctx, session, productID); err != nil {
		return err
	}

	if err := s.products.SetAvailability(ctx, productID, available); err != nil {
		return err
	}

	s.invalidate(productID)
	return nil
}

func (s *CatalogService) ownedProduct(ctx context.Context, session identity.Session, productID string) (*domain.Product, error) {
	seller, err := s.callerSeller(ctx, session)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != seller.ID {
		return nil, ErrNotProductOwner
	}
	return product, nil
}

func (s *CatalogService) callerSeller(ctx context.Context, session identity.Session) (*domain.Seller, error) {
	if !session.IsSeller() {
		return nil, ErrSellerOnly
	}
	seller, err := s.sellers.GetSellerByUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seller for user %s: %w", session.UserID, err)
	}
	return seller, nil
}

// filterApprovedSellers drops products whose seller has not passed
// verification. Seller lookups are memoized per call; catalogs rarely span
// many sellers.
func (s *CatalogService) filterApprovedSellers(ctx context.Context, products []*domain.Product) ([]*domain.Product, error) {
	approved := make(map[string]bool)
	filtered := make([]*domain.Product, 0, len(products))
	for _, product := range products {
		ok, seen := approved[product.SellerID]
		if !seen {
			seller, err := s.sellers.GetSeller(ctx, product.SellerID)
			if err != nil {
				if errors.Is(err, repository.ErrSellerNotFound) {
					approved[product.SellerID] = false
					continue
				}
				return nil, err
			}
			ok = seller.VerificationStatus == domain.VerificationApproved
			approved[product.SellerID] = ok
		}
		if ok {
			filtered = append(filtered, product)
		}
	}
	return filtered, nil
}

func (s *CatalogService) invalidate(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.DeleteProduct(ctx, productID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
	if err := s.cache.DeleteListings(ctx); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
