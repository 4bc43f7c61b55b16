package profile

import (
	"encoding/json"
	"time"

	"merchhold/internal/errors"
)

// exportVersion is bumped when the export document shape changes.
const exportVersion = 1

// ExportDocument is the versioned JSON envelope used to move profiles
// between installations.
type ExportDocument struct {
	Version         int        `json:"version"`
	ExportedAt      time.Time  `json:"exportedAt"`
	ActiveProfileID string     `json:"activeProfileId"`
	Profiles        []*Profile `json:"profiles"`
}

// Export packages the given profiles into a versioned document.
func Export(activeID string, profiles []*Profile) *ExportDocument {
	return &ExportDocument{
		Version:         exportVersion,
		ExportedAt:      time.Now().UTC(),
		ActiveProfileID: activeID,
		Profiles:        profiles,
	}
}

// Import parses and validates an export document. Validation is
// all-or-nothing: a document whose profiles key is missing or not an
// array is rejected whole, and nothing is applied.
func Import(data []byte) (*ExportDocument, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.ConfigInvalid("import document is not valid JSON")
	}

	profilesRaw, ok := raw["profiles"]
	if !ok {
		return nil, errors.ConfigInvalid("import document has no profiles key")
	}
	var profiles []*Profile
	if err := json.Unmarshal(profilesRaw, &profiles); err != nil {
		return nil, errors.ConfigInvalid("profiles must be an array of profile objects")
	}

	doc := &ExportDocument{Profiles: profiles}
	if v, ok := raw["version"]; ok {
		if err := json.Unmarshal(v, &doc.Version); err != nil {
			return nil, errors.ConfigInvalid("version must be a number")
		}
	}
	if v, ok := raw["activeProfileId"]; ok {
		if err := json.Unmarshal(v, &doc.ActiveProfileID); err != nil {
			return nil, errors.ConfigInvalid("activeProfileId must be a string")
		}
	}
	if v, ok := raw["exportedAt"]; ok {
		// Tolerate a missing or malformed timestamp only when absent;
		// a present key must parse.
		if err := json.Unmarshal(v, &doc.ExportedAt); err != nil {
			return nil, errors.ConfigInvalid("exportedAt must be an RFC 3339 timestamp")
		}
	}

	for _, p := range doc.Profiles {
		if p == nil || p.ID == "" {
			return nil, errors.ConfigInvalid("profile entries require an id")
		}
	}
	return doc, nil
}
