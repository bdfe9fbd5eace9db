package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidName          = errors.New("invalid_name")
	ErrCompanyNotFound      = errors.New("company_not_found")
	ErrExchangeNotFound     = errors.New("exchange_not_found")
	ErrOperatorNotFound     = errors.New("operator_not_found")
	ErrListingNotFound      = errors.New("listing_not_found")
	ErrAlreadyListed        = errors.New("already_listed")
	ErrInsufficientShares   = errors.New("insufficient_shares")
	ErrInsufficientFunds    = errors.New("insufficient_funds")
	ErrInsufficientHoldings = errors.New("insufficient_holdings")
)

// ValidationError represents a rejected precondition on an input value,
// such as a non-positive quantity, price, or amount.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
