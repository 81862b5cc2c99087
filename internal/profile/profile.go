// Package profile manages launch profiles. Each profile is a named,
// UUID-identified property context built in loose mode from the catalog.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/propsheet/internal/catalog"
	"github.com/dshills/propsheet/internal/property"
)

var (
	// ErrProfileNotFound is returned for an unknown profile ID.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrDuplicateName is returned when a name is already used (case-insensitive).
	ErrDuplicateName = errors.New("profile name already exists")

	// ErrEmptyName is returned for a blank profile name.
	ErrEmptyName = errors.New("profile name is empty")
)

// Profile is one launch profile.
type Profile struct {
	ID      uuid.UUID
	Name    string
	Context *property.Context
	Created time.Time
}

// Store holds launch profiles in insertion order. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	profiles []*Profile
	byID     map[uuid.UUID]*Profile
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID: make(map[uuid.UUID]*Profile),
	}
}

// FromCatalog builds every launch profile declared in f.
func FromCatalog(f *catalog.File, opts ...property.ContextOption) (*Store, error) {
	s := NewStore()
	for _, def := range f.Profiles {
		ctx, err := f.BuildProfile(def.Name, opts...)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", def.Name, err)
		}
		if _, err := s.Add(def.Name, ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add stores ctx under name with a fresh ID.
func (s *Store) Add(name string, ctx *property.Context) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(name, uuid.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	p := &Profile{
		ID:      uuid.New(),
		Name:    name,
		Context: ctx,
		Created: time.Now(),
	}
	s.profiles = append(s.profiles, p)
	s.byID[p.ID] = p
	return p, nil
}

// Get returns the profile with the given ID.
func (s *Store) Get(id uuid.UUID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return p, nil
}

// Find returns the profile with the given name (case-insensitive).
func (s *Store) Find(name string) (*Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// List returns the profiles in insertion order.
func (s *Store) List() []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Len returns the number of profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Duplicate stores a deep copy of the profile's context under name.
// Edits to the copy do not affect the original.
func (s *Store) Duplicate(id uuid.UUID, name string) (*Profile, error) {
	src, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.Add(name, src.Context.Clone())
}

// Rename changes a profile's name.
func (s *Store) Rename(id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if s.nameTaken(name, id) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	p.Name = name
	return nil
}

// Remove deletes a profile.
func (s *Store) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	delete(s.byID, id)
	for i, p := range s.profiles {
		if p.ID == id {
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			break
		}
	}
	return nil
}

// nameTaken reports whether another profile than except uses name.
// Callers hold s.mu.
func (s *Store) nameTaken(name string, except uuid.UUID) bool {
	for _, p := range s.profiles {
		if p.ID != except && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
