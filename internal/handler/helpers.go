package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/abdougarali/Perfume-Order-Store/internal/admin"
	"github.com/abdougarali/Perfume-Order-Store/internal/order"
)

var errInvalidOrderID = errors.New("invalid order id")

// respondWithError sends a JSON error payload.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("handler: failed to write JSON response")
	}
}

// mapOrderError translates domain errors into HTTP status codes. Validation
// failures keep their specific reason; internal failures collapse into a
// generic message so no internals leak to the client.
func mapOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrMissingContactFields),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidTotal),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, errInvalidOrderID):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrOrderNotFound):
		respondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidStatusTransition):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, admin.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "unauthorized access")
	default:
		respondWithError(w, http.StatusInternalServerError, "an error occurred, please try again")
	}
}
