package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/identity"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/service"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/storage"
)

// sessionFrom pulls the resolved session out of the request context; a
// request that got past the identity middleware always has one.
func sessionFrom(w http.ResponseWriter, r *http.Request) (identity.Session, bool) {
	session, err := identity.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "missing session")
		return identity.Session{}, false
	}
	return session, true
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps workflow sentinels onto HTTP statuses: validation
// 400, authorization 403, missing resources 404, concurrent or duplicate
// writes 409, requests that are well-formed but impossible in the current
// state 422.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrMissingPhone),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidVerification),
		errors.Is(err, service.ErrProductNotInOrder):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, service.ErrSellerOnly),
		errors.Is(err, service.ErrAdminOnly),
		errors.Is(err, service.ErrNotOrderSeller),
		errors.Is(err, service.ErrNotOrderBuyer),
		errors.Is(err, service.ErrNotProductOwner),
		errors.Is(err, service.ErrNotCheckoutOwner):
		respondError(w, http.StatusForbidden, "forbidden", err.Error())

	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrSellerNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, service.ErrCheckoutInProgress),
		errors.Is(err, service.ErrSellerExists),
		errors.Is(err, repository.ErrDuplicateReview),
		errors.Is(err, repository.ErrStatusConflict),
		errors.Is(err, repository.ErrVerificationFinal),
		errors.Is(err, repository.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "conflict", err.Error())

	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrOrderFinal),
		errors.Is(err, service.ErrCancelTooLate),
		errors.Is(err, service.ErrOrderNotDelivered):
		respondError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())

	case errors.Is(err, storage.ErrStorageBlocked):
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())

	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
