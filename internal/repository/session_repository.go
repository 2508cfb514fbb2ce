package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/model"
)

// session is the per-client form state.  Bookings are kept in insertion
// order and numbered from 1.
type session struct {
	id       string
	bookings []model.Booking
	created  time.Time
	lastSeen time.Time
}

// SessionInfo is a read-only view of a session.
type SessionInfo struct {
	ID           string
	BookingCount int
	CreatedAt    time.Time
	LastSeen     time.Time
}

// SessionRepo keeps every session's bookings in memory.  Nothing survives a
// restart.  Sessions idle for longer than ttl are evicted by Sweep.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewSessionRepo returns an empty store.  A nil clock defaults to time.Now
// and a nil logger to a no-op logger.
func NewSessionRepo(ttl time.Duration, now func() time.Time, log *zap.Logger) *SessionRepo {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionRepo{sessions: make(map[string]*session), ttl: ttl, now: now, log: log}
}

// TTL returns the idle lifetime of a session.
func (r *SessionRepo) TTL() time.Duration { return r.ttl }

// Create allocates a new empty session and returns its ID.
func (r *SessionRepo) Create() string {
	id := uuid.NewString()
	now := r.now()
	r.mu.Lock()
	r.sessions[id] = &session{id: id, created: now, lastSeen: now}
	r.mu.Unlock()
	return id
}

// Ensure refreshes the session's last-seen time, creating an empty session
// with that ID when it is unknown (evicted, or the process restarted).  It
// reports whether the session was created.
func (r *SessionRepo) Ensure(id string) bool {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = now
		return false
	}
	r.sessions[id] = &session{id: id, created: now, lastSeen: now}
	return true
}

// Append stores b in the session, assigning its Number, and returns the
// stored booking.
func (r *SessionRepo) Append(id string, b model.Booking) (model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return model.Booking{}, ErrSessionNotFound
	}
	b.Number = len(s.bookings) + 1
	s.bookings = append(s.bookings, b)
	s.lastSeen = r.now()
	return b, nil
}

// List returns a copy of the session's bookings in insertion order.
func (r *SessionRepo) List(id string) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make([]model.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}

// Get returns the booking with the given 1-based number.
func (r *SessionRepo) Get(id string, number int) (model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return model.Booking{}, ErrSessionNotFound
	}
	if number < 1 || number > len(s.bookings) {
		return model.Booking{}, ErrBookingNotFound
	}
	return s.bookings[number-1], nil
}

// Info describes a session.
func (r *SessionRepo) Info(id string) (SessionInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return SessionInfo{}, ErrSessionNotFound
	}
	return SessionInfo{ID: s.id, BookingCount: len(s.bookings), CreatedAt: s.created, LastSeen: s.lastSeen}, nil
}

// Len returns the number of live sessions.
func (r *SessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle since before now-ttl and returns their IDs,
// sorted.  A non-positive ttl disables eviction.
func (r *SessionRepo) Sweep(now time.Time) []string {
	if r.ttl <= 0 {
		return nil
	}
	cutoff := now.Add(-r.ttl)
	r.mu.Lock()
	var evicted []string
	for id, s := range r.sessions {
		if !s.lastSeen.After(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()
	sort.Strings(evicted)
	return evicted
}

// RunJanitor sweeps every interval until ctx is cancelled.
func (r *SessionRepo) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if evicted := r.Sweep(r.now()); len(evicted) > 0 {
				r.log.Debug("evicted idle sessions", zap.Int("count", len(evicted)))
			}
		}
	}
}
