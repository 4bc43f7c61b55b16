package reconcile

import (
	"merchhold/domain/schema"
	"merchhold/domain/table"
)

// source is one corroborating row for the logical entity being
// reconciled: the primary match plus at most one row per other table.
type source struct {
	record    *table.Record
	tableName string
}

// Reconciler merges corroborating field values for one logical entity
// across independently loaded tables into a single canonical field map.
type Reconciler struct {
	idx *table.Index
}

// NewReconciler builds a reconciler over an index of loaded tables.
func NewReconciler(idx *table.Index) *Reconciler {
	return &Reconciler{idx: idx}
}

// Reconcile gathers corroborating rows for the entity behind
// primaryMatch and produces one value per canonical field: the first
// non-empty value found scanning the primary table, then the other
// tables in load order. Values are normalized by field kind; profile
// defaults fill only fields still empty afterwards. Fields with no
// source anywhere are simply absent.
func (r *Reconciler) Reconcile(primaryMatch *table.Record, sourceTable string, defaults map[schema.Field]string) map[schema.Field]string {
	sources := r.gatherSources(primaryMatch, sourceTable)

	result := make(map[schema.Field]string)
	for _, field := range schema.AllFields {
		for _, src := range sources {
			col, ok := r.idx.Mapping(src.tableName)[field]
			if !ok {
				continue
			}
			cell, ok := src.record.Get(col)
			if !ok || cell.IsEmpty() {
				continue
			}
			if normalized := NormalizeValue(field, cell); normalized != "" {
				result[field] = normalized
				break
			}
		}
	}

	for field, def := range defaults {
		if def == "" {
			continue
		}
		if result[field] == "" {
			result[field] = def
		}
	}
	return result
}

// gatherSources resolves the primary identifier and collects the first
// row matching it from every other loaded table, one per table at most.
func (r *Reconciler) gatherSources(primaryMatch *table.Record, sourceTable string) []source {
	sources := []source{{record: primaryMatch, tableName: sourceTable}}

	idCol, ok := r.idx.Mapping(sourceTable)[schema.FieldIdentifier]
	if !ok {
		return sources
	}
	idKey := schema.Normalize(primaryMatch.Value(idCol).String())
	if idKey == "" {
		return sources
	}

	for _, t := range r.idx.Tables() {
		if t.Name == sourceTable {
			continue
		}
		if row, found := r.idx.LookupByKey(t, idKey); found {
			sources = append(sources, source{record: row, tableName: t.Name})
		}
	}
	return sources
}
