package api

import (
	"net/http"

	"prokat/internal/metrics"
	"prokat/internal/pricing"
)

// QuoteRequest is the request body for POST /api/products/{productID}/quote.
type QuoteRequest struct {
	RentalDates string `json:"rental_dates"` // DD.MM.YYYY - DD.MM.YYYY
}

// PriceResponse is a priced range. Amounts are in major currency units.
type PriceResponse struct {
	RentalDates  string  `json:"rental_dates"`
	BillableDays int     `json:"billable_days"`
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

func priceResponse(rentalDates string, q pricing.Quote) *PriceResponse {
	return &PriceResponse{
		RentalDates:  rentalDates,
		BillableDays: q.BillableDays,
		Subtotal:     q.Subtotal.Float(),
		Discount:     q.Discount.Float(),
		Total:        q.Total.Float(),
	}
}

// handleQuote validates and prices a rental range.
// POST /api/products/{productID}/quote
func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("quote")

	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RentalDates == "" {
		writeError(w, http.StatusBadRequest, "rental_dates is required")
		return
	}

	res, err := s.svc.Quote(r.Context(), id, req.RentalDates)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, priceResponse(res.Range.String(), res.Quote))
}
