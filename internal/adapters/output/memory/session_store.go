package memory

import (
	"context"
	"sync"
	"time"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/output"
)

// Compile-time check to ensure PreferenceStore implements output.PreferenceStore
var _ output.PreferenceStore = (*PreferenceStore)(nil)

// PreferenceStore struct - Output adapter for in-process session storage.
// The map lock only guards slot lookup; each session has its own lock so
// fetch-merge-persist is atomic per session while sessions proceed in parallel.
//
// A slot is removed from the map once no caller holds it and its record is gone
// (reset) or expired. Expired slots of sessions that are never seen again are
// swept at most once per TTL, so memory stays bounded by the sessions active
// within one TTL window.
type PreferenceStore struct {
	mu        sync.Mutex
	slots     map[string]*sessionSlot
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// sessionSlot holds one session. refs is guarded by PreferenceStore.mu, record by mu.
// A slot with refs == 0 has no holder, so its record may be read under the map lock.
type sessionSlot struct {
	mu     sync.Mutex
	record *domain.SessionRecord
	refs   int
}

// Option configures a PreferenceStore
type Option func(*PreferenceStore)

// WithClock replaces the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *PreferenceStore) {
		s.now = now
	}
}

// NewPreferenceStore creates an in-memory store. A non-positive ttl uses domain.DefaultSessionTTL.
func NewPreferenceStore(ttl time.Duration, opts ...Option) *PreferenceStore {
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	s := &PreferenceStore{
		slots: make(map[string]*sessionSlot),
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

// TTL returns the configured session TTL
func (s *PreferenceStore) TTL() time.Duration {
	return s.ttl
}

// acquire returns the slot of sessionID and registers the caller as a holder.
// Every acquire must be paired with release.
func (s *PreferenceStore) acquire(sessionID string) *sessionSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	sl, ok := s.slots[sessionID]
	if !ok {
		sl = &sessionSlot{}
		s.slots[sessionID] = sl
	}
	sl.refs++
	return sl
}

// release drops the caller's hold and deletes the slot when it is the last holder
// and nothing live remains. The caller must not hold sl.mu.
func (s *PreferenceStore) release(sessionID string, sl *sessionSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl.refs--
	if sl.refs == 0 && isDead(sl, s.now()) {
		delete(s.slots, sessionID)
	}
}

// sweepLocked removes unheld dead slots, at most once per TTL. Caller must hold s.mu.
func (s *PreferenceStore) sweepLocked() {
	now := s.now()
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, sl := range s.slots {
		if sl.refs == 0 && isDead(sl, now) {
			delete(s.slots, id)
		}
	}
}

func isDead(sl *sessionSlot, now time.Time) bool {
	return sl.record == nil || sl.record.IsExpiredAt(now)
}

// current returns the live record of the slot, replacing a missing or expired one.
// Caller must hold sl.mu.
func (s *PreferenceStore) current(sessionID string, sl *sessionSlot) *domain.SessionRecord {
	now := s.now()
	if sl.record == nil || sl.record.IsExpiredAt(now) {
		sl.record = domain.NewSessionRecord(sessionID, s.ttl, now)
		return sl.record
	}
	sl.record.Touch(now)
	return sl.record
}

// Get returns a snapshot of the session's preference
func (s *PreferenceStore) Get(_ context.Context, sessionID string) (domain.Preference, error) {
	sl := s.acquire(sessionID)
	defer s.release(sessionID, sl)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	return s.current(sessionID, sl).Snapshot(), nil
}

// UpdatePreferences merges updates into the session's preference
func (s *PreferenceStore) UpdatePreferences(_ context.Context, sessionID string, updates domain.Preference) (domain.Preference, error) {
	sl := s.acquire(sessionID)
	defer s.release(sessionID, sl)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	record := s.current(sessionID, sl)
	record.Preference = record.Preference.Merge(updates)
	return record.Snapshot(), nil
}

// Reset drops the session record. The slot itself goes away with its last holder.
func (s *PreferenceStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	_, ok := s.slots[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	sl := s.acquire(sessionID)
	defer s.release(sessionID, sl)
	sl.mu.Lock()
	sl.record = nil
	sl.mu.Unlock()
	return nil
}

// Len returns the number of live sessions at the current time
func (s *PreferenceStore) Len() int {
	s.mu.Lock()
	slots := make([]*sessionSlot, 0, len(s.slots))
	for _, sl := range s.slots {
		slots = append(slots, sl)
	}
	s.mu.Unlock()

	now := s.now()
	n := 0
	for _, sl := range slots {
		sl.mu.Lock()
		if sl.record != nil && !sl.record.IsExpiredAt(now) {
			n++
		}
		sl.mu.Unlock()
	}
	return n
}
