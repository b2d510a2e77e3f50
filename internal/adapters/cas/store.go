// Package cas implements plan memoization storage keyed by content
// hashes.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultPath is the plan store location relative to the project root.
const DefaultPath = ".plank/plans.json"

var _ ports.PlanStore = (*Store)(nil)

// Store implements ports.PlanStore using a flat JSON file. Entries are
// keyed by (lockfile digest, target, override fingerprint), so a plan
// is recomputed only when one of those inputs changes.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.PlanInfo
}

// NewStore creates a new PlanStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.PlanInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read plan store")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal plan store")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal plan store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for plan store")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write plan store")
	}

	return nil
}

// Get retrieves the plan info for a given key.
func (s *Store) Get(key string) (*domain.PlanInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[key]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the plan info.
func (s *Store) Put(info domain.PlanInfo) error {
	s.mu.Lock()
	s.cache[info.Key] = info
	s.mu.Unlock()

	return s.save()
}
