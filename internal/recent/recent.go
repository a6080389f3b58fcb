// Package recent keeps the bounded, most-recent-first list of searched cities.
package recent

import (
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	// Key names the storage entry holding the JSON-encoded list.
	Key = "weatherRecentSearches"
	// MaxEntries bounds the list length.
	MaxEntries = 5
)

// Storage is a string key/value store. *db.DB satisfies it.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
}

// Store persists recent searches. Storage is read once, on first use; after
// that the in-memory list stays authoritative for the session and storage
// failures are logged, never returned.
type Store struct {
	storage Storage
	logger  *zap.Logger

	mu     sync.Mutex
	loaded bool
	list   []string
}

// NewStore creates a Store. A nil storage keeps the list in memory only.
func NewStore(storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, logger: logger}
}

// Load returns the session's list, reading storage on first use.
func (s *Store) Load() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	return clone(s.list)
}

// Record moves city to the front of the list, persists it and returns the
// new list.
func (s *Store) Record(city string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	s.list = Push(s.list, city)

	if s.storage != nil {
		if err := s.write(s.list); err != nil {
			s.logger.Error("saving recent searches", zap.String("city", city), zap.Error(err))
		}
	}
	return clone(s.list)
}

// ensureLoaded seeds the list from storage once. Callers hold s.mu.
func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	if list, ok := s.read(); ok {
		s.list = list
	}
}

func (s *Store) read() ([]string, bool) {
	if s.storage == nil {
		return nil, false
	}

	raw, ok, err := s.storage.Get(Key)
	if err != nil {
		s.logger.Error("loading recent searches", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Error("decoding recent searches", zap.Error(err))
		return nil, false
	}
	return truncate(list), true
}

func (s *Store) write(list []string) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.storage.Put(Key, string(data))
}

// Push returns a new list with city first, any case-insensitive duplicate
// removed, truncated to MaxEntries.
func Push(list []string, city string) []string {
	out := make([]string, 0, MaxEntries)
	out = append(out, city)
	for _, item := range list {
		if strings.EqualFold(item, city) {
			continue
		}
		out = append(out, item)
	}
	return truncate(out)
}

func truncate(list []string) []string {
	if len(list) > MaxEntries {
		return list[:MaxEntries]
	}
	return list
}

func clone(list []string) []string {
	if list == nil {
		return []string{}
	}
	return append([]string(nil), list...)
}
