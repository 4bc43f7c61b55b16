package profile

import (
	"time"

	"github.com/google/uuid"

	"merchhold/domain/schema"
)

// Profile holds one user's saved column-mapping overrides, default
// field values, and custom option lists for enum fields.
type Profile struct {
	ID       string                             `json:"id"`
	Name     string                             `json:"name"`
	Defaults map[schema.Field]string            `json:"defaults,omitempty"`
	Options  map[schema.Field][]string          `json:"options,omitempty"`
	Mappings map[string]map[schema.Field]string `json:"mappings,omitempty"`
	Created  time.Time                          `json:"createdAt"`
}

// NewProfile creates an empty named profile with a fresh id.
func NewProfile(name string) *Profile {
	return &Profile{
		ID:       uuid.NewString(),
		Name:     name,
		Defaults: make(map[schema.Field]string),
		Options:  make(map[schema.Field][]string),
		Mappings: make(map[string]map[schema.Field]string),
		Created:  time.Now().UTC(),
	}
}

// MappingFor returns the override map for a table, nil when none saved.
func (p *Profile) MappingFor(tableName string) map[schema.Field]string {
	if p == nil {
		return nil
	}
	return p.Mappings[tableName]
}

// SetMapping saves a per-table override for one canonical field.
func (p *Profile) SetMapping(tableName string, field schema.Field, column string) {
	if p.Mappings == nil {
		p.Mappings = make(map[string]map[schema.Field]string)
	}
	m := p.Mappings[tableName]
	if m == nil {
		m = make(map[schema.Field]string)
		p.Mappings[tableName] = m
	}
	m[field] = column
}

// AllMappings returns every saved override keyed by table name,
// shaped for index construction.
func (p *Profile) AllMappings() map[string]map[schema.Field]string {
	if p == nil {
		return nil
	}
	return p.Mappings
}
