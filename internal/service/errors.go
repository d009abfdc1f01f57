package service

import "errors"

var (
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrMissingAddress       = errors.New("delivery address is required")
	ErrMissingPhone         = errors.New("phone number is required")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrCheckoutInProgress   = errors.New("checkout with this token is already in progress")
	ErrNotCheckoutOwner     = errors.New("checkout token belongs to another buyer")
	ErrOrderFinal           = errors.New("order is in a terminal state")
	ErrCancelTooLate        = errors.New("order can no longer be cancelled")
	ErrNotOrderSeller       = errors.New("caller does not sell this order")
	ErrNotOrderBuyer        = errors.New("caller did not place this order")
	ErrNotProductOwner      = errors.New("caller does not own this product")
	ErrOrderNotDelivered    = errors.New("order has not been delivered yet")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrProductNotInOrder    = errors.New("product is not part of this order")
	ErrSellerExists         = errors.New("seller profile already exists")
	ErrSellerOnly           = errors.New("caller is not a seller")
	ErrAdminOnly            = errors.New("caller is not an admin")
	ErrInvalidVerification  = errors.New("verification decision must be approved or rejected")
)
