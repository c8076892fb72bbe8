package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"cityeats/internal/domain"
	"cityeats/internal/storage"
)

// DefaultLimit is the number of cities kept
const DefaultLimit = domain.MaxRecentCities

// Repository abstracts where the recent list lives
type Repository interface {
	Load() ([]string, error)
	Save(entries []string) error
}

// KVRepository stores the list as a JSON array under a single storage key
type KVRepository struct {
	kv  storage.KeyValueStore
	key string
}

// NewKVRepository creates a repository on kv using storage.KeyRecentCities
func NewKVRepository(kv storage.KeyValueStore) *KVRepository {
	return &KVRepository{kv: kv, key: storage.KeyRecentCities}
}

func (r *KVRepository) Load() ([]string, error) {
	raw, ok, err := r.kv.Get(r.key)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.key, err)
	}
	return entries, nil
}

func (r *KVRepository) Save(entries []string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.key, err)
	}
	return r.kv.Set(r.key, string(data))
}

// Store is the bounded most-recent-first list of committed cities
type Store struct {
	repo    Repository
	limit   int
	entries []string
	logger  *slog.Logger
}

// NewStore creates a store; call Load to read persisted entries
func NewStore(repo Repository, limit int, logger *slog.Logger) *Store {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:   repo,
		limit:  limit,
		logger: logger.With(slog.String("component", "history")),
	}
}

// Load reads the persisted list. Absent, unreadable or malformed state yields an empty list.
func (s *Store) Load() []string {
	entries, err := s.repo.Load()
	if err != nil {
		s.logger.Warn("discarding unreadable recent history", slog.Any("error", err))
		entries = nil
	}
	s.entries = sanitize(entries, s.limit)
	return s.Entries()
}

// Record moves city to the front, drops any older copy, truncates and persists.
// Matching is exact and case-sensitive.
func (s *Store) Record(city string) []string {
	if strings.TrimSpace(city) == "" {
		return s.Entries()
	}

	updated := make([]string, 0, s.limit)
	updated = append(updated, city)
	for _, e := range s.entries {
		if e != city {
			updated = append(updated, e)
		}
	}
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}
	s.entries = updated

	if err := s.repo.Save(s.entries); err != nil {
		s.logger.Error("failed to persist recent history", slog.Any("error", err))
	}
	return s.Entries()
}

// Entries returns a copy of the current list
func (s *Store) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

func sanitize(entries []string, limit int) []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, limit)
	for _, e := range entries {
		if strings.TrimSpace(e) == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}
