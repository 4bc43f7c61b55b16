package table

import (
	"strings"

	"merchhold/domain/schema"
)

// DefaultResultCap bounds a search. Scanning stops outright once the
// cap is reached, so tables later in iteration order can be starved by
// large earlier ones.
const DefaultResultCap = 20

// Match is one search hit: an independent copy of the matching row
// annotated with the table it came from. The provenance tag lives only
// on the match, never in the source table's own rows.
type Match struct {
	Record      *Record
	SourceTable string
}

// Predicate decides whether a table participates in a search. The
// caller supplies it; the index never hard-codes eligibility.
type Predicate func(tableName string) bool

// AllTables is the predicate that searches everything.
func AllTables(string) bool { return true }

// NameContains builds a predicate matching tables whose normalized name
// contains the normalized token.
func NameContains(token string) Predicate {
	key := schema.Normalize(token)
	return func(name string) bool {
		return strings.Contains(schema.Normalize(name), key)
	}
}

// Index holds the loaded tables and answers ranked substring searches
// over a resolved column. It is a synchronous, side-effect-free scan
// with no suspension points; it never mutates the tables it holds.
type Index struct {
	resolver *schema.Resolver
	tables   []*Table
	mappings map[string]map[schema.Field]string
}

// NewIndex builds an index over the given tables. Column mappings are
// resolved once per table here and cached; overrides come from the
// active profile keyed by table name and may be nil.
func NewIndex(resolver *schema.Resolver, tables []*Table, overrides map[string]map[schema.Field]string) *Index {
	idx := &Index{
		resolver: resolver,
		tables:   tables,
		mappings: make(map[string]map[schema.Field]string, len(tables)),
	}
	for _, t := range tables {
		idx.mappings[t.Name] = resolver.ResolveMapping(t.Columns, overrides[t.Name])
	}
	return idx
}

// Tables returns the indexed tables in load order.
func (idx *Index) Tables() []*Table { return idx.tables }

// Mapping returns the cached column mapping for a table, nil when the
// table is not indexed.
func (idx *Index) Mapping(tableName string) map[schema.Field]string {
	return idx.mappings[tableName]
}

// Search scans eligible tables in load order for rows whose resolved
// column for field contains the query, comparing normalized keys on
// both sides. Empty or whitespace-only queries return nothing. limit
// <= 0 means DefaultResultCap.
func (idx *Index) Search(query string, field schema.Field, eligible Predicate, limit int) []Match {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultResultCap
	}
	queryKey := schema.Normalize(query)
	if queryKey == "" {
		return nil
	}

	var matches []Match
	for _, t := range idx.tables {
		if eligible != nil && !eligible(t.Name) {
			continue
		}
		col, ok := idx.mappings[t.Name][field]
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			cell, ok := row.Get(col)
			if !ok || cell.IsEmpty() {
				continue
			}
			if !strings.Contains(schema.Normalize(cell.String()), queryKey) {
				continue
			}
			matches = append(matches, Match{
				Record:      row.Clone(),
				SourceTable: t.Name,
			})
			if len(matches) >= limit {
				return matches
			}
		}
	}
	return matches
}

// LookupByKey finds the first row in a table whose resolved identifier
// column equals the normalized key. Used for secondary corroborating
// lookups during reconciliation.
func (idx *Index) LookupByKey(t *Table, normalizedKey string) (*Record, bool) {
	if normalizedKey == "" {
		return nil, false
	}
	col, ok := idx.mappings[t.Name][schema.FieldIdentifier]
	if !ok {
		return nil, false
	}
	for _, row := range t.Rows {
		if cell, ok := row.Get(col); ok {
			if schema.Normalize(cell.String()) == normalizedKey {
				return row, true
			}
		}
	}
	return nil, false
}
