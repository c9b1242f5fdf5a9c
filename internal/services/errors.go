package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these to
// HTTP statuses; anything else is an unexpected internal error.
var (
	// ErrEmptyCart means the user has no active cart or the cart has no
	// items. Callers treat this as a recoverable no-op, not a failure.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCheckoutInProgress means another checkout for the same user holds
	// the checkout lock.
	ErrCheckoutInProgress = errors.New("checkout already in progress")

	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrUnauthorized    = errors.New("not authorized")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrValidation      = errors.New("validation failed")
)
