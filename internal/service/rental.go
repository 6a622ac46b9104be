package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"prokat/internal/calendar"
	"prokat/internal/dateutil"
	"prokat/internal/events"
	"prokat/internal/metrics"
	"prokat/internal/models"
	"prokat/internal/pricing"
	"prokat/internal/selection"
	"prokat/internal/validation"
)

var (
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrProductUnavailable = errors.New("product is not available for rent")
)

// BookingStore is the persistence the rental service needs.
type BookingStore interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	UpsertProduct(ctx context.Context, p *models.Product) error
	SetStock(ctx context.Context, productID int64, quantity int) error
	BookedRanges(ctx context.Context, productID int64, since dateutil.Date) ([]string, error)
	AddBooking(ctx context.Context, b *models.Booking) error
	CancelBooking(ctx context.Context, externalOrderID string) (int64, error)
}

// RangeCache caches booked ranges per product.
type RangeCache interface {
	Get(ctx context.Context, productID int64) ([]string, bool, error)
	Set(ctx context.Context, productID int64, ranges []string) error
	Invalidate(ctx context.Context, productID int64) error
}

// Options configures calendar building and pricing.
type Options struct {
	HorizonDays           int
	MinLeadDays           int
	ReturnHour            int
	EarlyReturnHour       int
	DiscountThresholdDays int
	Location              *time.Location
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// QuoteResult is an accepted range and its price.
type QuoteResult struct {
	Range dateutil.Range
	Quote pricing.Quote
}

// RentalService loads bookings, builds calendars and drives selection sessions.
type RentalService struct {
	store    BookingStore
	cache    RangeCache
	bus      *events.EventBus
	sessions *selection.Store
	engine   *pricing.Engine
	opts     Options
	logger   *zerolog.Logger

	// locks serialises check-then-write on a product's bookings and stock.
	locks productLocks
}

type productLocks struct {
	mu   sync.Mutex
	byID map[int64]*sync.Mutex
}

// lock blocks until the product's mutex is held and returns its unlock.
func (l *productLocks) lock(productID int64) func() {
	l.mu.Lock()
	if l.byID == nil {
		l.byID = make(map[int64]*sync.Mutex)
	}
	m, ok := l.byID[productID]
	if !ok {
		m = &sync.Mutex{}
		l.byID[productID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// NewRentalService wires the service and subscribes it to bookings.changed. cache may be nil.
func NewRentalService(
	store BookingStore,
	cache RangeCache,
	bus *events.EventBus,
	sessions *selection.Store,
	opts Options,
	logger *zerolog.Logger,
) *RentalService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if bus == nil {
		bus = events.NewEventBus()
	}
	if sessions == nil {
		sessions = selection.NewStore(0)
	}

	s := &RentalService{
		store:    store,
		cache:    cache,
		bus:      bus,
		sessions: sessions,
		engine:   pricing.NewEngine(opts.DiscountThresholdDays),
		opts:     opts,
		logger:   logger,
	}
	bus.Subscribe(events.EventBookingsChanged, s.onBookingsChanged)
	return s
}

// Today returns the current date in the shop's timezone.
func (s *RentalService) Today() dateutil.Date {
	return dateutil.Today(s.opts.Now(), s.opts.Location)
}

func (s *RentalService) activeProduct(ctx context.Context, productID int64) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%w: %d", ErrProductUnavailable, productID)
	}
	return p, nil
}

func (s *RentalService) bookedRanges(ctx context.Context, productID int64, today dateutil.Date) ([]string, error) {
	if s.cache != nil {
		ranges, ok, err := s.cache.Get(ctx, productID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("product_id", productID).Msg("range cache read failed")
		}
		if ok {
			return ranges, nil
		}
	}

	ranges, err := s.store.BookedRanges(ctx, productID, today)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, productID, ranges); err != nil {
			s.logger.Warn().Err(err).Int64("product_id", productID).Msg("range cache write failed")
		}
	}
	return ranges, nil
}

func (s *RentalService) buildCalendar(ctx context.Context, p *models.Product) (*calendar.Calendar, error) {
	today := s.Today()
	ranges, err := s.bookedRanges(ctx, p.ID, today)
	if err != nil {
		return nil, err
	}
	return s.calendarOf(p, today, ranges), nil
}

func (s *RentalService) calendarOf(p *models.Product, today dateutil.Date, ranges []string) *calendar.Calendar {
	logger := s.logger.With().Int64("product_id", p.ID).Logger()
	return calendar.Build(calendar.Options{
		Today:           today,
		HorizonDays:     s.opts.HorizonDays,
		Stock:           p.StockQuantity,
		MinLeadDays:     s.opts.MinLeadDays,
		ReturnHour:      s.opts.ReturnHour,
		EarlyReturnHour: s.opts.EarlyReturnHour,
		Logger:          &logger,
	}, ranges)
}

// Calendar builds the availability calendar of a product.
func (s *RentalService) Calendar(ctx context.Context, productID int64) (*calendar.Calendar, *models.Product, error) {
	p, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	cal, err := s.buildCalendar(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return cal, p, nil
}

// Quote validates a "DD.MM.YYYY - DD.MM.YYYY" range and prices it.
// Rejections wrap the validation sentinel errors or dateutil.ErrParse.
func (s *RentalService) Quote(ctx context.Context, productID int64, rentalDates string) (*QuoteResult, error) {
	r, err := dateutil.ParseRange(rentalDates)
	if err != nil {
		return nil, err
	}

	cal, p, err := s.Calendar(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := validation.NewValidator(cal, s.logger).Validate(r.Start, r.End); err != nil {
		return nil, err
	}

	days := pricing.CountDays(r.Start, r.End)
	metrics.ObserveBillableDays(days)
	return &QuoteResult{
		Range: r,
		Quote: s.engine.Price(days, p.BasePrice, p.Discount()),
	}, nil
}

// StartSession opens a selection session for a product.
func (s *RentalService) StartSession(ctx context.Context, productID int64) (*selection.Session, error) {
	cal, p, err := s.Calendar(ctx, productID)
	if err != nil {
		return nil, err
	}

	ctrl := selection.NewController(cal, s.engine, pricingOf(p), nil, s.logger)
	session := s.sessions.Create(p.ID, ctrl)
	s.logger.Debug().Str("session_id", session.ID).Int64("product_id", p.ID).Msg("selection session started")
	return session, nil
}

// Session returns a live session.
func (s *RentalService) Session(sessionID string) (*selection.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Click forwards a date click to the session's controller.
func (s *RentalService) Click(sessionID string, d dateutil.Date) (selection.Outcome, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return selection.Outcome{}, err
	}
	return session.Controller.OnDateClick(d), nil
}

// ResetSession clears the session's selection.
func (s *RentalService) ResetSession(sessionID string) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	session.Controller.Reset()
	return nil
}

// EndSession drops a session.
func (s *RentalService) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// AddBooking validates rentalDates against the stored bookings and stores the booking.
// The product stays locked from the range read to the insert, so two concurrent requests
// for the same days cannot both pass validation.
func (s *RentalService) AddBooking(ctx context.Context, productID int64, rentalDates, externalOrderID string) (*models.Booking, error) {
	r, err := dateutil.ParseRange(rentalDates)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(productID)
	defer unlock()

	p, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	// The cache may lag a concurrent rebuild; bookings are checked against the store.
	today := s.Today()
	ranges, err := s.store.BookedRanges(ctx, productID, today)
	if err != nil {
		return nil, err
	}
	if err := validation.NewValidator(s.calendarOf(p, today, ranges), s.logger).Validate(r.Start, r.End); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ProductID:       productID,
		StartDate:       r.Start,
		EndDate:         r.End,
		Status:          models.StatusActive,
		ExternalOrderID: externalOrderID,
	}
	if err := s.store.AddBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("add booking: %w", err)
	}

	s.logger.Info().
		Int64("booking_id", b.ID).
		Int64("product_id", productID).
		Str("range", b.RentalDates()).
		Str("order", externalOrderID).
		Msg("booking added")
	s.publish(productID, "booking_added")
	return b, nil
}

// CancelBooking cancels a booking by external order id.
func (s *RentalService) CancelBooking(ctx context.Context, externalOrderID string) error {
	productID, err := s.store.CancelBooking(ctx, externalOrderID)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("product_id", productID).Str("order", externalOrderID).Msg("booking canceled")
	s.publish(productID, "booking_canceled")
	return nil
}

// SetStock updates a product's stock quantity.
func (s *RentalService) SetStock(ctx context.Context, productID int64, quantity int) error {
	unlock := s.locks.lock(productID)
	defer unlock()

	if err := s.store.SetStock(ctx, productID, quantity); err != nil {
		return err
	}
	s.logger.Info().Int64("product_id", productID).Int("stock", quantity).Msg("stock updated")
	s.publish(productID, "stock_changed")
	return nil
}

// SyncProducts upserts catalog products and rebuilds their live sessions.
func (s *RentalService) SyncProducts(ctx context.Context, products []models.Product) error {
	for i := range products {
		if err := s.store.UpsertProduct(ctx, &products[i]); err != nil {
			return err
		}
		s.publish(products[i].ID, "catalog_synced")
	}
	s.logger.Info().Int("products", len(products)).Msg("catalog synced")
	return nil
}

func (s *RentalService) publish(productID int64, reason string) {
	if err := s.bus.Publish(events.NewBookingsChanged(productID, reason)); err != nil {
		s.logger.Error().Err(err).Int64("product_id", productID).Str("reason", reason).Msg("bookings.changed handler failed")
	}
}

// onBookingsChanged drops cached ranges and rebuilds the product's live sessions.
func (s *RentalService) onBookingsChanged(e events.Event) error {
	payload, err := events.DecodeBookingsChanged(e)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, payload.ProductID); err != nil {
			return fmt.Errorf("invalidate ranges of product %d: %w", payload.ProductID, err)
		}
	}

	p, err := s.store.GetProduct(ctx, payload.ProductID)
	if err != nil {
		return err
	}
	cal, err := s.buildCalendar(ctx, p)
	if err != nil {
		return err
	}

	s.sessions.UpdatePricing(p.ID, pricingOf(p))
	n := s.sessions.ResetProduct(p.ID, cal)
	s.logger.Debug().
		Int64("product_id", p.ID).
		Str("reason", payload.Reason).
		Int("sessions", n).
		Msg("calendar rebuilt")
	return nil
}

// RunJanitor removes expired sessions every interval until ctx is done.
func (s *RentalService) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Cleanup(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("expired selection sessions removed")
			}
		}
	}
}

func pricingOf(p *models.Product) selection.Pricing {
	return selection.Pricing{BasePrice: p.BasePrice, Discount: p.Discount()}
}
