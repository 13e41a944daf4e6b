package catalog

import (
	"context"
	"sync"

	"gmprompt/internal/errors"
)

// Store holds the session's catalog. Until a catalog is set every read
// returns an empty sequence and Catalog reports it as unavailable.
type Store struct {
	mu      sync.RWMutex
	catalog *Catalog
	err     error
}

func NewStore() *Store {
	return &Store{}
}

// Load fetches source and populates the store. On failure the store stays
// empty and remembers the error.
func (s *Store) Load(ctx context.Context, source string) error {
	cat, err := Load(ctx, source)
	if err != nil {
		s.Fail(err)
		return err
	}
	s.Set(cat)
	return nil
}

func (s *Store) Set(cat *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = cat
	s.err = nil
}

// Fail records a load failure.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = nil
	s.err = err
}

func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog != nil
}

// Catalog returns the loaded catalog or an UNAVAILABLE error, wrapping the
// load failure when there was one.
func (s *Store) Catalog() (*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.catalog != nil {
		return s.catalog, nil
	}
	if s.err != nil {
		return nil, errors.WrapWithCode(s.err, errors.CodeUnavailable, "catalog unavailable")
	}
	return nil, errors.Unavailable("catalog unavailable")
}

func (s *Store) Systems() []System {
	if cat := s.current(); cat != nil {
		return cat.Systems()
	}
	return []System{}
}

func (s *Store) AdventureTypes() []AdventureType {
	if cat := s.current(); cat != nil {
		return cat.AdventureTypes()
	}
	return []AdventureType{}
}

func (s *Store) ClassicSettings() []Setting {
	return s.settings(GroupClassic)
}

func (s *Store) UniqueSettings() []Setting {
	return s.settings(GroupUnique)
}

func (s *Store) TwistedSettings() []Setting {
	return s.settings(GroupTwisted)
}

func (s *Store) AllSettings() []Setting {
	if cat := s.current(); cat != nil {
		return cat.AllSettings()
	}
	return []Setting{}
}

func (s *Store) settings(group SettingGroup) []Setting {
	if cat := s.current(); cat != nil {
		return cat.Settings(group)
	}
	return []Setting{}
}

func (s *Store) current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}
