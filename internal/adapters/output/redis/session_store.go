package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobmatch-assistant/internal/domain"
	"jobmatch-assistant/internal/ports/output"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure PreferenceStore implements output.PreferenceStore
var _ output.PreferenceStore = (*PreferenceStore)(nil)

const (
	defaultKeyPrefix = "jobmatch:session:"
	maxTxAttempts    = 10
	txRetryBackoff   = 5 * time.Millisecond
)

// PreferenceStore struct - Output adapter keeping session records in Redis.
// Each fetch-merge-persist runs as an optimistic WATCH/MULTI transaction on the
// session key, so writers of one session serialize across processes. The key
// TTL mirrors the session TTL; last_seen is checked as well on read.
type PreferenceStore struct {
	client    goredis.UniversalClient
	ttl       time.Duration
	keyPrefix string
	now       func() time.Time
}

// Option configures a PreferenceStore
type Option func(*PreferenceStore)

// WithKeyPrefix sets the key namespace
func WithKeyPrefix(prefix string) Option {
	return func(s *PreferenceStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// WithClock replaces the time source used for last_seen
func WithClock(now func() time.Time) Option {
	return func(s *PreferenceStore) {
		s.now = now
	}
}

// NewPreferenceStore creates a Redis-backed store
func NewPreferenceStore(client goredis.UniversalClient, ttl time.Duration, opts ...Option) *PreferenceStore {
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	s := &PreferenceStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient parses redisURL and verifies connectivity
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func (s *PreferenceStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Get returns the session's preference, refreshing last_seen
func (s *PreferenceStore) Get(ctx context.Context, sessionID string) (domain.Preference, error) {
	return s.mutate(ctx, sessionID, func(p domain.Preference) domain.Preference { return p })
}

// UpdatePreferences merges updates into the session's preference
func (s *PreferenceStore) UpdatePreferences(ctx context.Context, sessionID string, updates domain.Preference) (domain.Preference, error) {
	return s.mutate(ctx, sessionID, func(p domain.Preference) domain.Preference { return p.Merge(updates) })
}

// Reset deletes the session key
func (s *PreferenceStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrSessionStore, sessionID, err)
	}
	return nil
}

func (s *PreferenceStore) mutate(ctx context.Context, sessionID string, apply func(domain.Preference) domain.Preference) (domain.Preference, error) {
	key := s.key(sessionID)
	var result domain.Preference

	txf := func(tx *goredis.Tx) error {
		record, err := s.load(ctx, tx, sessionID, key)
		if err != nil {
			return err
		}

		record.Preference = apply(record.Preference)
		record.Touch(s.now())

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode session %s: %w", sessionID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		result = record.Snapshot()
		return nil
	}

	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, goredis.TxFailedErr) {
			return domain.Preference{}, fmt.Errorf("%w: %v", domain.ErrSessionStore, err)
		}

		logrus.Debugf("Session %s transaction conflict, attempt %d/%d", sessionID, attempt, maxTxAttempts)
		select {
		case <-ctx.Done():
			return domain.Preference{}, fmt.Errorf("%w: %v", domain.ErrSessionStore, ctx.Err())
		case <-time.After(txRetryBackoff * time.Duration(attempt)):
		}
	}

	return domain.Preference{}, fmt.Errorf("%w: session %s still contended after %d attempts", domain.ErrSessionStore, sessionID, maxTxAttempts)
}

// load reads the record under WATCH, starting fresh when missing, unreadable or expired
func (s *PreferenceStore) load(ctx context.Context, tx *goredis.Tx, sessionID, key string) (*domain.SessionRecord, error) {
	now := s.now()

	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.NewSessionRecord(sessionID, s.ttl, now), nil
	}
	if err != nil {
		return nil, err
	}

	var record domain.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		logrus.Warnf("Discarding unreadable session %s: %v", sessionID, err)
		return domain.NewSessionRecord(sessionID, s.ttl, now), nil
	}
	record.SetTTL(s.ttl)
	record.SessionID = sessionID

	if record.IsExpiredAt(now) {
		return domain.NewSessionRecord(sessionID, s.ttl, now), nil
	}
	if record.Preference.Skills == nil {
		record.Preference.Skills = []string{}
	}
	return &record, nil
}
