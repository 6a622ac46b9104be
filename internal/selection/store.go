package selection

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"prokat/internal/calendar"
)

// DefaultSessionTimeout is used when the store is created with a non-positive timeout.
const DefaultSessionTimeout = 30 * time.Minute

// Session is one storefront visitor's picker for one product.
type Session struct {
	ID         string
	ProductID  int64
	Controller *Controller
	StartedAt  time.Time

	mu        sync.Mutex
	updatedAt time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = now
}

// UpdatedAt returns the time of the last access.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) isExpired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.UpdatedAt()) > timeout
}

// Store keeps live sessions keyed by a random id.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	timeout  time.Duration
	now      func() time.Time
}

// NewStore creates a new session store.
func NewStore(timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &Store{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		now:      time.Now,
	}
}

// Create registers ctrl for productID under a new session id.
func (st *Store) Create(productID int64, ctrl *Controller) *Session {
	now := st.now()
	s := &Session{
		ID:         uuid.NewString(),
		ProductID:  productID,
		Controller: ctrl,
		StartedAt:  now,
		updatedAt:  now,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

// Get returns a live session and refreshes its idle timer. Expired sessions are removed.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := st.now()
	if s.isExpired(now, st.timeout) {
		st.Delete(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (st *Store) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	removed := 0
	for id, s := range st.sessions {
		if s.isExpired(now, st.timeout) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// ResetProduct rebuilds every session of productID with cal, dropping their selections.
func (st *Store) ResetProduct(productID int64, cal *calendar.Calendar) int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	n := 0
	for _, s := range st.sessions {
		if s.ProductID == productID {
			s.Controller.Rebuild(cal)
			n++
		}
	}
	return n
}

// UpdatePricing pushes new product price data to every session of productID.
func (st *Store) UpdatePricing(productID int64, p Pricing) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, s := range st.sessions {
		if s.ProductID == productID {
			s.Controller.SetPricing(p)
		}
	}
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
