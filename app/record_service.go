package app

import (
	"context"
	"sync"

	"merchhold/domain/profile"
	"merchhold/domain/reconcile"
	"merchhold/domain/schema"
	"merchhold/domain/table"
	"merchhold/internal"
	"merchhold/internal/errors"
	"merchhold/ports"
)

// RecordService answers record searches across the loaded tables and
// reconciles a chosen match into the canonical field set. It caches the
// table index (column mappings resolve once per table load) and drops
// the cache when the table set or active profile changes.
type RecordService struct {
	tables   ports.TableStore
	profiles ports.ProfileStore
	resolver *schema.Resolver
	cap      int
	log      *internal.Logger

	mu           sync.Mutex
	cachedIdx    *table.Index
	cachedForPID string
}

// NewRecordService wires the service. resultCap <= 0 keeps the index
// default.
func NewRecordService(tables ports.TableStore, profiles ports.ProfileStore, resolver *schema.Resolver, resultCap int) *RecordService {
	return &RecordService{
		tables:   tables,
		profiles: profiles,
		resolver: resolver,
		cap:      resultCap,
		log:      internal.DefaultLogger,
	}
}

// Invalidate drops the cached index; call after tables are loaded,
// edited, or a mapping override is saved.
func (s *RecordService) Invalidate() {
	s.mu.Lock()
	s.cachedIdx = nil
	s.cachedForPID = ""
	s.mu.Unlock()
}

// index returns the cached index for the profile, rebuilding on miss.
func (s *RecordService) index(ctx context.Context, profileID string) (*table.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cachedIdx != nil && s.cachedForPID == profileID {
		return s.cachedIdx, nil
	}

	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, err
	}
	var overrides map[string]map[schema.Field]string
	if profileID != "" {
		p, err := s.profiles.GetProfile(ctx, profileID)
		if err == nil && p != nil {
			overrides = p.AllMappings()
		}
	}

	s.cachedIdx = table.NewIndex(s.resolver, tables, overrides)
	s.cachedForPID = profileID
	s.log.Debug("[RecordService] index rebuilt: %d tables", len(tables))
	return s.cachedIdx, nil
}

// Search runs a substring search on the resolved column for field over
// tables the eligibility predicate admits.
func (s *RecordService) Search(ctx context.Context, profileID, query string, field schema.Field, eligible table.Predicate) ([]table.Match, error) {
	idx, err := s.index(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return idx.Search(query, field, eligible, s.cap), nil
}

// Locate finds the row in the named table whose identifier equals the
// key after normalization. Search is substring-based for discovery;
// a reconciliation or update targets exactly one row, so the primary
// record is located by equality, never by containment.
func (s *RecordService) Locate(ctx context.Context, profileID, tableName, rowKey string) (table.Match, error) {
	idx, err := s.index(ctx, profileID)
	if err != nil {
		return table.Match{}, err
	}
	key := schema.Normalize(rowKey)
	for _, t := range idx.Tables() {
		if t.Name != tableName {
			continue
		}
		if row, ok := idx.LookupByKey(t, key); ok {
			return table.Match{Record: row.Clone(), SourceTable: t.Name}, nil
		}
	}
	return table.Match{}, errors.RowNotFound(tableName, rowKey)
}

// Reconcile merges the match with corroborating rows from the other
// loaded tables and applies the profile's default field values.
func (s *RecordService) Reconcile(ctx context.Context, profileID string, m table.Match) (map[schema.Field]string, error) {
	idx, err := s.index(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var defaults map[schema.Field]string
	if profileID != "" {
		if p, err := s.profiles.GetProfile(ctx, profileID); err == nil && p != nil {
			defaults = p.Defaults
		}
	}

	rec := reconcile.NewReconciler(idx)
	return rec.Reconcile(m.Record, m.SourceTable, defaults), nil
}

// SaveMapping persists a per-table column override on the profile and
// invalidates the cached index so the next search resolves with it.
func (s *RecordService) SaveMapping(ctx context.Context, profileID, tableName string, field schema.Field, column string) error {
	p, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if p == nil {
		p = profile.NewProfile(profileID)
		p.ID = profileID
	}
	p.SetMapping(tableName, field, column)
	if err := s.profiles.PutProfile(ctx, p); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}
