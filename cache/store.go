package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaguanLabs/bilingo"
	"github.com/rs/zerolog"
)

// DefaultRemoteTimeout bounds each call to the remote tier.
const DefaultRemoteTimeout = 10 * time.Second

// Store is the dual-tier record store. It is safe for concurrent use.
type Store struct {
	path          string
	remote        Remote
	remoteTimeout time.Duration
	log           zerolog.Logger

	mu      sync.RWMutex
	records map[string]bilingo.Record

	// flushMu serializes local writes. Each write snapshots the map after
	// acquiring it, so the last write always carries every earlier save.
	flushMu sync.Mutex

	// remoteMu lets Close wait for in-flight upserts.
	remoteMu  sync.RWMutex
	closed    atomic.Bool
	closeOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithRemote enables the remote tier.
func WithRemote(r Remote) Option {
	return func(s *Store) {
		s.remote = r
	}
}

// WithRemoteTimeout sets the deadline applied to each remote call. A hung
// remote otherwise holds up Close.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.remoteTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a store backed by the JSON file at path and reads it
// synchronously, so read-only consumers see previously cached records before
// Load runs. An unreadable file is logged and treated as empty.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{
		path:          path,
		records:       make(map[string]bilingo.Record),
		remoteTimeout: DefaultRemoteTimeout,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	records, err := readLocal(path, s.log)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("local cache unreadable, starting empty")
	}
	s.records = records
	s.log.Debug().Str("path", path).Int("records", len(records)).Msg("local cache read")

	return s
}

// Load merges the remote tier into memory; remote records win on key
// collision. Remote failures are logged and the local records are kept.
func (s *Store) Load(ctx context.Context) (map[string]bilingo.Record, error) {
	if s.remote == nil {
		return s.Records(), nil
	}

	s.remoteMu.RLock()
	if s.closed.Load() {
		s.remoteMu.RUnlock()
		return s.Records(), nil
	}
	lctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	raw, err := s.remote.LoadAll(lctx)
	cancel()
	s.remoteMu.RUnlock()
	if err != nil {
		s.log.Warn().Err(err).Msg("remote cache unavailable, using local records")
		return s.Records(), nil
	}

	merged := 0
	s.mu.Lock()
	for key, value := range raw {
		rec, err := DecodeRecord(value)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("dropping invalid remote cache record")
			continue
		}
		s.records[key] = rec
		merged++
	}
	s.mu.Unlock()

	s.log.Info().Int("remote_records", merged).Msg("remote cache merged")
	return s.Records(), nil
}

// Get returns the record stored under key.
func (s *Store) Get(key string) (bilingo.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Save stores rec under key in memory, rewrites the local file and upserts
// the remote tier unless the store is closed. The in-memory update always
// happens; the returned error reports persistence failures only.
func (s *Store) Save(ctx context.Context, key string, rec bilingo.Record) error {
	s.mu.Lock()
	s.records[key] = rec
	s.mu.Unlock()

	var errs []error
	if err := s.flush(); err != nil {
		errs = append(errs, &bilingo.CacheError{Message: "writing local tier", Cause: err})
	}
	if err := s.upsertRemote(ctx, key, rec); err != nil {
		errs = append(errs, &bilingo.CacheError{Message: "writing remote tier", Cause: err})
	}
	return errors.Join(errs...)
}

func (s *Store) flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	return writeLocal(s.path, s.Records())
}

func (s *Store) upsertRemote(ctx context.Context, key string, rec bilingo.Record) error {
	if s.remote == nil {
		return nil
	}

	s.remoteMu.RLock()
	defer s.remoteMu.RUnlock()
	if s.closed.Load() {
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()
	return s.remote.Upsert(ctx, key, data)
}

// Records returns a copy of every record.
func (s *Store) Records() map[string]bilingo.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bilingo.Record, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Path returns the local tier path.
func (s *Store) Path() string {
	return s.path
}

// Close marks the store closed, waits for in-flight remote writes and
// releases the remote connection. Later saves only reach the local tier.
// Safe to call more than once.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.remote == nil {
			return
		}
		s.remoteMu.Lock()
		defer s.remoteMu.Unlock()
		err = s.remote.Close()
	})
	return err
}

var _ bilingo.CacheStore = (*Store)(nil)
