package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"prokat/internal/metrics"
)

// BookingRequest is the request body for POST /api/products/{productID}/bookings.
type BookingRequest struct {
	RentalDates     string `json:"rental_dates"`
	ExternalOrderID string `json:"external_order_id"`
}

// BookingResponse is returned for a stored booking.
type BookingResponse struct {
	BookingID       int64  `json:"booking_id"`
	ProductID       int64  `json:"product_id"`
	RentalDates     string `json:"rental_dates"`
	ExternalOrderID string `json:"external_order_id,omitempty"`
	Status          string `json:"status"`
}

// StockRequest is the request body for PUT /api/products/{productID}/stock.
type StockRequest struct {
	StockQuantity *int `json:"stock_quantity"`
}

// handleAddBooking validates and stores a booking coming from checkout.
// POST /api/products/{productID}/bookings
func (s *HTTPServer) handleAddBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_add")

	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RentalDates == "" {
		writeError(w, http.StatusBadRequest, "rental_dates is required")
		return
	}

	b, err := s.svc.AddBooking(r.Context(), id, req.RentalDates, req.ExternalOrderID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, BookingResponse{
		BookingID:       b.ID,
		ProductID:       b.ProductID,
		RentalDates:     b.RentalDates(),
		ExternalOrderID: b.ExternalOrderID,
		Status:          b.Status,
	})
}

// DELETE /api/bookings/{externalID}
func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_cancel")

	if err := s.svc.CancelBooking(r.Context(), chi.URLParam(r, "externalID")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "canceled"})
}

// PUT /api/products/{productID}/stock
func (s *HTTPServer) handleSetStock(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("stock_set")

	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req StockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StockQuantity == nil || *req.StockQuantity < 0 {
		writeError(w, http.StatusBadRequest, "stock_quantity must be a non-negative integer")
		return
	}

	if err := s.svc.SetStock(r.Context(), id, *req.StockQuantity); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"stock_quantity": *req.StockQuantity})
}
