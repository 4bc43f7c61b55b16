package memory

import (
	"context"
	"sync"

	"merchhold/domain/profile"
	"merchhold/domain/schema"
	"merchhold/domain/table"
	"merchhold/internal/errors"
)

// TableStore keeps the loaded tables in memory in load order.
type TableStore struct {
	mu     sync.RWMutex
	order  []string
	tables map[string]*table.Table
}

// NewTableStore creates an empty store.
func NewTableStore() *TableStore {
	return &TableStore{tables: make(map[string]*table.Table)}
}

// List returns the tables in load order.
func (s *TableStore) List(ctx context.Context) ([]*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*table.Table, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tables[name])
	}
	return out, nil
}

// Get returns one table by name.
func (s *TableStore) Get(ctx context.Context, name string) (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, errors.NotFound("table " + name)
	}
	return t, nil
}

// Put stores a table, replacing any loaded table of the same name while
// keeping its original load position.
func (s *TableStore) Put(ctx context.Context, t *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[t.Name]; !ok {
		s.order = append(s.order, t.Name)
	}
	s.tables[t.Name] = t
	return nil
}

// ProfileStore keeps user profiles in memory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Profile
}

// NewProfileStore creates an empty store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]*profile.Profile)}
}

// GetProfile returns the profile, or (nil, nil) when none exists.
func (s *ProfileStore) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[id], nil
}

// PutProfile stores a profile by id.
func (s *ProfileStore) PutProfile(ctx context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return nil
}

// ListProfiles returns every stored profile.
func (s *ProfileStore) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

// GetMapping returns the saved overrides for (profile, table), nil when
// none exist.
func (s *ProfileStore) GetMapping(ctx context.Context, profileID, tableName string) (map[schema.Field]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.profiles[profileID]
	if p == nil {
		return nil, nil
	}
	return p.MappingFor(tableName), nil
}

// SetMapping saves overrides for (profile, table), creating the profile
// if needed.
func (s *ProfileStore) SetMapping(ctx context.Context, profileID, tableName string, mapping map[schema.Field]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[profileID]
	if p == nil {
		p = profile.NewProfile(profileID)
		p.ID = profileID
		s.profiles[profileID] = p
	}
	for field, col := range mapping {
		p.SetMapping(tableName, field, col)
	}
	return nil
}
