package handler

import (
	"errors"
	"net/http"

	"github.com/efreitasn/marketsim/internal/domain"
)

// mapDomainError maps domain errors to HTTP responses. Every endpoint shares
// the same taxonomy: malformed input is 400, unknown entities are 404, a
// duplicate listing is 409, and rejected trade preconditions are 422.
func mapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidName):
		WriteError(w, http.StatusBadRequest, "invalid_name", "name must not be blank")
	case errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrExchangeNotFound),
		errors.Is(err, domain.ErrOperatorNotFound),
		errors.Is(err, domain.ErrListingNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), err.Error())
	case errors.Is(err, domain.ErrAlreadyListed):
		WriteError(w, http.StatusConflict, "already_listed", "company already has a listing on this exchange")
	case errors.Is(err, domain.ErrInsufficientShares):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_shares", "requested quantity exceeds available shares")
	case errors.Is(err, domain.ErrInsufficientFunds):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_funds", "budget insufficient for this operation")
	case errors.Is(err, domain.ErrInsufficientHoldings):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_holdings", "sell quantity exceeds held quantity")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
