package schema

// Resolver finds the physical column in a table that corresponds to a
// canonical field. Resolution is pure and deterministic: given the same
// alias table, columns, and override, repeated calls return the same
// answer.
type Resolver struct {
	aliases *AliasTable
}

// NewResolver creates a resolver over the given alias table.
func NewResolver(aliases *AliasTable) *Resolver {
	return &Resolver{aliases: aliases}
}

// Resolve returns the physical column for field, first hit wins:
//
//  1. override, when it names an existing column exactly
//  2. exact match against the field's display label
//  3. normalized-key equality with the display label
//  4. membership in the field's alias set
//  5. positional fallback for identifier (first column) and name
//     (second column); every other field stays unresolved
//
// The second return is false when no column resolves.
func (r *Resolver) Resolve(field Field, columns []string, override string) (string, bool) {
	if col, ok := r.ResolveStrict(field, columns, override); ok {
		return col, true
	}

	// Identifier and name gate all row lookups, so they get a
	// best-effort positional default. Anything else renders blank
	// rather than guessing.
	switch field {
	case FieldIdentifier:
		if len(columns) > 0 {
			return columns[0], true
		}
	case FieldName:
		if len(columns) > 1 {
			return columns[1], true
		}
	}

	return "", false
}

// ResolveStrict runs the resolution chain without the positional
// fallback. Patch targeting uses it: writing into a guessed column
// would corrupt unrelated data, so an unresolved field is skipped.
func (r *Resolver) ResolveStrict(field Field, columns []string, override string) (string, bool) {
	if override != "" {
		for _, col := range columns {
			if col == override {
				return col, true
			}
		}
	}

	label := field.Label()
	for _, col := range columns {
		if col == label {
			return col, true
		}
	}

	labelKey := Normalize(label)
	for _, col := range columns {
		if Normalize(col) == labelKey {
			return col, true
		}
	}

	for _, col := range columns {
		if r.aliases.Contains(field, Normalize(col)) {
			return col, true
		}
	}

	return "", false
}

// ResolveMapping resolves every canonical field against the table's
// columns in one pass. Overrides are per-field physical column names
// from the active profile. Unresolved fields are absent from the map.
func (r *Resolver) ResolveMapping(columns []string, overrides map[Field]string) map[Field]string {
	mapping := make(map[Field]string)
	for _, field := range AllFields {
		if col, ok := r.Resolve(field, columns, overrides[field]); ok {
			mapping[field] = col
		}
	}
	return mapping
}
