package repository

import "errors"

var (
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartItemNotFound     = errors.New("item not found in cart")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrSellerNotFound       = errors.New("seller not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrSessionExists        = errors.New("checkout session already exists")
	ErrDuplicateOrderNumber = errors.New("order number already taken")
	ErrDuplicateOrder       = errors.New("order for this checkout and seller already exists")
	ErrDuplicateReview      = errors.New("review for this order item already exists")
	ErrStatusConflict       = errors.New("order status changed concurrently")
	ErrVerificationFinal    = errors.New("seller verification already decided")
	ErrInsufficientStock    = errors.New("not enough stock")
)
