package domain

import "time"

// DefaultSessionTTL is used when no TTL is configured
const DefaultSessionTTL = 3600 * time.Second

// SessionRecord binds a session identifier to its current preference.
// LastSeen is refreshed on every access; once more than the TTL has passed the
// record is treated as absent and replaced by an all-unset one.
type SessionRecord struct {
	SessionID  string     `json:"session_id"`
	Preference Preference `json:"preference"`
	LastSeen   time.Time  `json:"last_seen"`
	ttl        time.Duration
}

// NewSessionRecord creates a record with an all-unset preference, last seen at now
func NewSessionRecord(sessionID string, ttl time.Duration, now time.Time) *SessionRecord {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRecord{
		SessionID:  sessionID,
		Preference: NewPreference(),
		LastSeen:   now,
		ttl:        ttl,
	}
}

// TTL returns the configured time-to-live
func (r *SessionRecord) TTL() time.Duration {
	return r.ttl
}

// SetTTL sets the time-to-live, used after decoding a persisted record
func (r *SessionRecord) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	r.ttl = ttl
}

// IsExpiredAt reports whether more than the TTL has elapsed since LastSeen
func (r *SessionRecord) IsExpiredAt(now time.Time) bool {
	return now.Sub(r.LastSeen) > r.ttl
}

// Touch refreshes LastSeen
func (r *SessionRecord) Touch(now time.Time) {
	r.LastSeen = now
}

// Snapshot returns a copy of the preference that shares no memory with the record
func (r *SessionRecord) Snapshot() Preference {
	return r.Preference.Clone()
}
