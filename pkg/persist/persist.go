// Package persist saves in-progress form data so a session can resume after
// a restart. Storage failures are logged and swallowed; persistence never
// interrupts the form flow.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/model"
)

// DefaultKey is the record name used when none is configured.
const DefaultKey = "multiStepFormData"

// Adapter loads, saves and clears one form's data.
type Adapter interface {
	Load() (model.FormData, bool)
	Save(model.FormData)
	Clear()
}

// KV is the byte store behind a Store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the record key.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store implements Adapter as JSON records in a KV.
type Store struct {
	kv     KV
	key    string
	logger *zap.Logger
}

var _ Adapter = (*Store)(nil)

// NewStore wraps kv.
func NewStore(kv KV, opts ...StoreOption) *Store {
	s := &Store{kv: kv, key: DefaultKey, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = s.logger.With(zap.String("key", s.key))
	return s
}

// Key returns the record key.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored data. Missing or unreadable records report false.
func (s *Store) Load() (model.FormData, bool) {
	if s == nil || s.kv == nil {
		return nil, false
	}
	raw, ok, err := s.kv.Get(context.Background(), s.key)
	if err != nil {
		s.logger.Warn("failed to load form data", zap.Error(err))
		return nil, false
	}
	if !ok || len(raw) == 0 {
		return nil, false
	}
	var data model.FormData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("failed to parse saved form data", zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	return data, true
}

// Save writes data. Empty data is ignored.
func (s *Store) Save(data model.FormData) {
	if s == nil || s.kv == nil || len(data) == 0 {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("failed to encode form data", zap.Error(err))
		return
	}
	if err := s.kv.Put(context.Background(), s.key, raw); err != nil {
		s.logger.Warn("failed to save form data", zap.Error(err))
	}
}

// Clear removes the stored record.
func (s *Store) Clear() {
	if s == nil || s.kv == nil {
		return
	}
	if err := s.kv.Delete(context.Background(), s.key); err != nil {
		s.logger.Warn("failed to clear form data", zap.Error(err))
	}
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBolt   = "bbolt"
)

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("persist: unknown backend")

// Config selects and locates a backend.
type Config struct {
	Backend string
	Path    string
}

// Backend is a KV that owns resources.
type Backend interface {
	KV
	io.Closer
}

// Open constructs the backend named by cfg.
func Open(cfg Config) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		backend, err = asBackend(NewFileKV(nil, cfg.Path))
	case BackendSQLite:
		backend, err = asBackend(OpenSQLite(cfg.Path))
	case BackendBolt:
		backend, err = asBackend(OpenBolt(cfg.Path))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("persist: open %s backend: %w", cfg.Backend, err)
	}
	return backend, nil
}

func asBackend[T Backend](backend T, err error) (Backend, error) {
	if err != nil {
		return nil, err
	}
	return backend, nil
}
