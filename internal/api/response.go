package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"prokat/internal/database"
	"prokat/internal/service"
	"prokat/internal/validation"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func productID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid product id")
	}
	return id, nil
}

// writeServiceError maps service and validation errors to HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, database.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, database.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch kind := validation.Kind(err); kind {
	case validation.KindParse:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), ErrorKind: string(kind)})
	case validation.KindUnknown:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), ErrorKind: string(kind)})
	}
}
