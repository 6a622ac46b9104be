package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"prokat/internal/dateutil"
	"prokat/internal/metrics"
	"prokat/internal/selection"
	"prokat/internal/validation"
)

// SessionResponse is the state of a selection session.
type SessionResponse struct {
	SessionID   string         `json:"session_id"`
	ProductID   int64          `json:"product_id"`
	State       string         `json:"state"`
	Start       string         `json:"start,omitempty"`
	End         string         `json:"end,omitempty"`
	Complete    bool           `json:"complete"`
	Invalid     bool           `json:"invalid"`
	ErrorKind   string         `json:"error_kind,omitempty"`
	Error       string         `json:"error,omitempty"`
	RentalDates string         `json:"rental_dates,omitempty"`
	Quote       *PriceResponse `json:"quote,omitempty"`
}

// ClickRequest is the request body for POST /api/sessions/{sessionID}/clicks.
type ClickRequest struct {
	Date string `json:"date"` // DD.MM.YYYY or YYYY-MM-DD
}

func sessionResponse(sess *selection.Session) SessionResponse {
	ctrl := sess.Controller
	sel := ctrl.Selection()

	resp := SessionResponse{
		SessionID:   sess.ID,
		ProductID:   sess.ProductID,
		State:       string(sel.State),
		Complete:    ctrl.IsComplete(),
		Invalid:     sel.Invalid,
		RentalDates: ctrl.RentalDates(),
	}
	if !sel.Start.IsZero() {
		resp.Start = sel.Start.String()
	}
	if !sel.End.IsZero() {
		resp.End = sel.End.String()
	}
	if sel.Reason != nil {
		resp.Error = sel.Reason.Error()
		resp.ErrorKind = string(validation.Kind(sel.Reason))
	}
	if q := ctrl.Quote(); q != nil {
		resp.Quote = priceResponse(resp.RentalDates, *q)
	}
	return resp
}

func parseClickDate(s string) (dateutil.Date, error) {
	if d, err := dateutil.Parse(s); err == nil {
		return d, nil
	}
	return dateutil.ParseISO(s)
}

// handleStartSession opens a selection session for a product.
// POST /api/products/{productID}/sessions
func (s *HTTPServer) handleStartSession(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_start")

	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.svc.StartSession(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

// GET /api/sessions/{sessionID}
func (s *HTTPServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_get")

	sess, err := s.svc.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// handleClick applies one date click. Rejected clicks still answer 200; the
// session body carries invalid=true and the error kind.
// POST /api/sessions/{sessionID}/clicks
func (s *HTTPServer) handleClick(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_click")

	var req ClickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	d, err := parseClickDate(req.Date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.svc.Click(sessionID, d); err != nil {
		s.writeServiceError(w, err)
		return
	}

	sess, err := s.svc.Session(sessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// POST /api/sessions/{sessionID}/reset
func (s *HTTPServer) handleResetSession(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_reset")

	sessionID := chi.URLParam(r, "sessionID")
	if err := s.svc.ResetSession(sessionID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	sess, err := s.svc.Session(sessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// DELETE /api/sessions/{sessionID}
func (s *HTTPServer) handleEndSession(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_end")

	s.svc.EndSession(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}
