// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justindrp/middlemanPOS/internal/cart"
	"github.com/justindrp/middlemanPOS/internal/catalog"
	"github.com/justindrp/middlemanPOS/internal/kvstore"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// WriteDomainError maps engine errors onto HTTP statuses: validation 400,
// unknown product 404, stock shortfall and empty cart 409, storage 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	var pe *kvstore.PersistenceError
	switch {
	case catalog.IsValidation(err):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case catalog.IsInsufficientStock(err):
		WriteJSONError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, cart.ErrEmptyCart):
		WriteJSONError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.As(err, &pe):
		WriteJSONError(w, http.StatusInternalServerError, "persistence_error", err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
