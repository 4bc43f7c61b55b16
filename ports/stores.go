package ports

import (
	"context"

	"merchhold/domain/profile"
	"merchhold/domain/schema"
	"merchhold/domain/table"
)

// TableStore owns the loaded tables. The engine borrows read access;
// for updates it hands back a patched copy via Put.
type TableStore interface {
	List(ctx context.Context) ([]*table.Table, error)
	Get(ctx context.Context, name string) (*table.Table, error)
	Put(ctx context.Context, t *table.Table) error
}

// ProfileStore supplies and persists per-user profiles and their
// column-mapping overrides, keyed by (profile id, table name).
// GetProfile and GetMapping return (nil, nil) when nothing is saved.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*profile.Profile, error)
	PutProfile(ctx context.Context, p *profile.Profile) error
	ListProfiles(ctx context.Context) ([]*profile.Profile, error)
	GetMapping(ctx context.Context, profileID, tableName string) (map[schema.Field]string, error)
	SetMapping(ctx context.Context, profileID, tableName string, mapping map[schema.Field]string) error
}
