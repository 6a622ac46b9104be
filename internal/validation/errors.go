package validation

import (
	"errors"

	"prokat/internal/dateutil"
)

var (
	ErrPastDate         = errors.New("rental cannot start in the past")
	ErrWeekend          = errors.New("rental cannot start or end on a Saturday")
	ErrReservedConflict = errors.New("rental overlaps an existing booking")
	ErrStockExhausted   = errors.New("out of stock for the selected start date")
	ErrDateTooFar       = errors.New("date is too far in the future")
)

// ErrorKind names a rejection for the storefront message surface.
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	KindParse            ErrorKind = "ParseError"
	KindPastDate         ErrorKind = "PastDateError"
	KindWeekend          ErrorKind = "WeekendError"
	KindReservedConflict ErrorKind = "ReservedConflictError"
	KindStockExhausted   ErrorKind = "StockExhaustedError"
	KindDateTooFar       ErrorKind = "DateTooFarError"
	KindUnknown          ErrorKind = "UnknownError"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{dateutil.ErrParse, KindParse},
	{ErrPastDate, KindPastDate},
	{ErrWeekend, KindWeekend},
	{ErrReservedConflict, KindReservedConflict},
	{ErrStockExhausted, KindStockExhausted},
	{ErrDateTooFar, KindDateTooFar},
}

// Kind classifies err. A nil error has KindNone.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
