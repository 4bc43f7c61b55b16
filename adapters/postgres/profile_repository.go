package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"merchhold/domain/profile"
	"merchhold/domain/schema"
	"merchhold/ports"
)

// profileRepository implements the ProfileStore interface
type profileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sqlx.DB) ports.ProfileStore {
	return &profileRepository{db: db}
}

// GetProfile retrieves a profile by id, (nil, nil) when none exists
func (r *profileRepository) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	query := `SELECT id, name, defaults, options, mappings, created_at FROM profiles WHERE id = $1`

	var p profile.Profile
	var defaultsJSON, optionsJSON, mappingsJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &defaultsJSON, &optionsJSON, &mappingsJSON, &p.Created,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal(defaultsJSON, &p.Defaults); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	if err := json.Unmarshal(optionsJSON, &p.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if err := json.Unmarshal(mappingsJSON, &p.Mappings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mappings: %w", err)
	}
	return &p, nil
}

// PutProfile inserts or replaces a profile
func (r *profileRepository) PutProfile(ctx context.Context, p *profile.Profile) error {
	defaultsJSON, err := json.Marshal(p.Defaults)
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}
	optionsJSON, err := json.Marshal(p.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	mappingsJSON, err := json.Marshal(p.Mappings)
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}

	query := `INSERT INTO profiles (id, name, defaults, options, mappings, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		defaults = EXCLUDED.defaults,
		options = EXCLUDED.options,
		mappings = EXCLUDED.mappings`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, defaultsJSON, optionsJSON, mappingsJSON, p.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to put profile: %w", err)
	}
	return nil
}

// ListProfiles returns every stored profile
func (r *profileRepository) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	query := `SELECT id FROM profiles ORDER BY created_at`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*profile.Profile, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetProfile(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// GetMapping returns the overrides saved for (profile id, table name)
func (r *profileRepository) GetMapping(ctx context.Context, profileID, tableName string) (map[schema.Field]string, error) {
	p, err := r.GetProfile(ctx, profileID)
	if err != nil || p == nil {
		return nil, err
	}
	return p.MappingFor(tableName), nil
}

// SetMapping saves overrides for (profile id, table name), creating the
// profile row if needed
func (r *profileRepository) SetMapping(ctx context.Context, profileID, tableName string, mapping map[schema.Field]string) error {
	p, err := r.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if p == nil {
		p = profile.NewProfile(profileID)
		p.ID = profileID
	}
	for field, col := range mapping {
		p.SetMapping(tableName, field, col)
	}
	return r.PutProfile(ctx, p)
}
