package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/AlexZinkM/evm-wallet/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto an HTTP status and a model.ErrorResponse body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), model.ErrorResponse{
		Error: err.Error(),
		Code:  model.ErrorCode(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrPriceUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAuth), errors.Is(err, model.ErrLocked):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNoCredential):
		return http.StatusNotFound
	case errors.Is(err, model.ErrCredentialExists), errors.Is(err, model.ErrTransferInFlight):
		return http.StatusConflict
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v. Malformed bodies are validation errors.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", model.ErrValidation, err)
	}
	return nil
}
