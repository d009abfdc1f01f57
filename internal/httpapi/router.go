package httpapi

import (
	"net/http"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Carts    *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Reviews  *ReviewHandler
	Catalog  *CatalogHandler
	Sellers  *SellerHandler
	Uploads  *UploadHandler
	Users    identity.UserEnsurer
}

// NewRouter wires the public catalog routes (no session needed) and the
// authenticated marketplace routes behind the identity middleware.
func NewRouter(h Handlers, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Browsing needs no identity.
		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{productID}", h.Catalog.GetProduct)
		r.Get("/products/{productID}/reviews", h.Reviews.ListProductReviews)
		r.Get("/categories", h.Catalog.ListCategories)
		r.Get("/sellers/{sellerID}", h.Sellers.GetSeller)

		r.Group(func(r chi.Router) {
			r.Use(identity.Middleware(h.Users))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Carts.GetCart)
				r.Post("/items", h.Carts.AddItem)
				r.Patch("/items/{productID}", h.Carts.UpdateQuantity)
				r.Delete("/items/{productID}", h.Carts.RemoveItem)
				r.Delete("/", h.Carts.ClearCart)
			})

			r.Post("/checkout", h.Checkout.PlaceOrder)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.ListMyOrders)
				r.Get("/{orderID}", h.Orders.GetOrder)
				r.Post("/{orderID}/advance", h.Orders.AdvanceStatus)
				r.Post("/{orderID}/cancel", h.Orders.CancelOrder)
				r.Post("/{orderID}/reviews", h.Reviews.SubmitReviews)
			})

			r.Route("/seller", func(r chi.Router) {
				r.Post("/register", h.Sellers.Register)
				r.Get("/me", h.Sellers.GetOwnSeller)
				r.Get("/orders", h.Orders.ListSellerOrders)
				r.Get("/products", h.Catalog.ListMyProducts)
				r.Post("/products", h.Catalog.CreateProduct)
				r.Put("/products/{productID}", h.Catalog.UpdateProduct)
				r.Patch("/products/{productID}/availability", h.Catalog.SetAvailability)
			})

			r.Patch("/sellers/{sellerID}/verification", h.Sellers.SetVerification)

			r.Post("/uploads", h.Uploads.Upload)
		})
	})

	return r
}
