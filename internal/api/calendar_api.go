package api

import (
	"bytes"
	"fmt"
	"net/http"

	"prokat/internal/calendar"
	"prokat/internal/dateutil"
	"prokat/internal/export"
	"prokat/internal/metrics"
)

// MaxCalendarDaysRange is the maximum number of days one calendar request may cover.
const MaxCalendarDaysRange = 90

// DayResponse is one calendar cell.
type DayResponse struct {
	Date       string   `json:"date"`    // YYYY-MM-DD
	Display    string   `json:"display"` // DD.MM.YYYY
	Tags       []string `json:"tags"`
	Selectable bool     `json:"selectable"`
	PickupFrom int      `json:"pickup_from,omitempty"`
	ReturnBy   int      `json:"return_by,omitempty"`
}

// CalendarResponse is the response for GET /api/products/{productID}/calendar.
type CalendarResponse struct {
	ProductID int64         `json:"product_id"`
	Stock     int           `json:"stock_quantity"`
	Today     string        `json:"today"`
	Horizon   string        `json:"horizon"`
	Days      []DayResponse `json:"days"`
}

// calendarPeriod reads ?from=&to= (YYYY-MM-DD), defaulting to [today, today+90].
func calendarPeriod(r *http.Request, today dateutil.Date) (from, to dateutil.Date, err error) {
	from, to = today, today.AddDays(MaxCalendarDaysRange)

	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = dateutil.ParseISO(v); err != nil {
			return from, to, fmt.Errorf("invalid from format; expected YYYY-MM-DD")
		}
		if r.URL.Query().Get("to") == "" {
			to = from.AddDays(MaxCalendarDaysRange)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = dateutil.ParseISO(v); err != nil {
			return from, to, fmt.Errorf("invalid to format; expected YYYY-MM-DD")
		}
	}

	if to.Before(from) {
		return from, to, fmt.Errorf("from must be before or equal to to")
	}
	if from.DaysUntil(to) > MaxCalendarDaysRange {
		return from, to, fmt.Errorf("date range exceeds maximum of %d days", MaxCalendarDaysRange)
	}
	return from, to, nil
}

func dayResponses(days []calendar.DayInfo) []DayResponse {
	out := make([]DayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, DayResponse{
			Date:       d.Date.ISO(),
			Display:    d.Date.String(),
			Tags:       d.Class.Names(),
			Selectable: d.Selectable,
			PickupFrom: d.PickupFrom,
			ReturnBy:   d.ReturnBy,
		})
	}
	return out
}

// handleCalendar returns per-day classifications of a product.
// GET /api/products/{productID}/calendar
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar")

	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := calendarPeriod(r, s.svc.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cal, product, err := s.svc.Calendar(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CalendarResponse{
		ProductID: product.ID,
		Stock:     cal.Stock(),
		Today:     cal.Today().ISO(),
		Horizon:   cal.Horizon().ISO(),
		Days:      dayResponses(cal.Days(from, to)),
	})
}

// handleCalendarExport returns the calendar as an xlsx workbook.
// GET /api/products/{productID}/calendar.xlsx
func (s *HTTPServer) handleCalendarExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar_export")

	id, err := productID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := calendarPeriod(r, s.svc.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cal, _, err := s.svc.Calendar(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCalendar(&buf, cal.Days(from, to)); err != nil {
		s.writeServiceError(w, fmt.Errorf("export calendar: %w", err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="calendar_%d_%s.xlsx"`, id, from.ISO()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
