package app

import (
	"context"
	"encoding/json"

	"merchhold/domain/profile"
	"merchhold/internal"
	"merchhold/ports"
)

// ProfileService handles profile lifecycle and the versioned
// configuration export/import document.
type ProfileService struct {
	profiles ports.ProfileStore
	log      *internal.Logger
}

// NewProfileService wires the service.
func NewProfileService(profiles ports.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles, log: internal.DefaultLogger}
}

// ExportConfig packages every stored profile into the versioned JSON
// document.
func (s *ProfileService) ExportConfig(ctx context.Context, activeID string) ([]byte, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	doc := profile.Export(activeID, profiles)
	return json.MarshalIndent(doc, "", "  ")
}

// ImportConfig validates an export document and applies it. All-or-
// nothing: validation happens before any profile is written, so a
// rejected document changes nothing.
func (s *ProfileService) ImportConfig(ctx context.Context, data []byte) (*profile.ExportDocument, error) {
	doc, err := profile.Import(data)
	if err != nil {
		return nil, err
	}
	for _, p := range doc.Profiles {
		if err := s.profiles.PutProfile(ctx, p); err != nil {
			return nil, err
		}
	}
	s.log.Info("[ProfileService] imported %d profiles (active %s)",
		len(doc.Profiles), doc.ActiveProfileID)
	return doc, nil
}
