package schema

// AliasTable maps each canonical field to the set of normalized header
// keys seen for it in the wild. It is static configuration data loaded
// once at startup, never edited at runtime, so that ColumnResolver and
// ingestion header detection stay consistent with each other.
type AliasTable struct {
	Version int
	aliases map[Field]map[string]bool
}

// aliasSeed is the known header vocabulary, one row per canonical field.
// Entries must already be in normalized-key form.
var aliasSeed = map[Field][]string{
	FieldIdentifier: {
		"mid", "merchantid", "orgmid", "accountid", "merchantno",
		"midno", "accountno", "custid", "customerid", "merchantnumber",
	},
	FieldName: {
		"merchantname", "dbaname", "businessname", "accountname",
		"tradename", "legalname", "name", "dba",
	},
	FieldStatus: {
		"status", "holdstatus", "accountstatus", "currentstatus",
	},
	FieldHoldType: {
		"holdtype", "typeofhold", "type",
	},
	FieldHoldDate: {
		"holddate", "dateheld", "dateofhold", "dateonhold",
	},
	FieldHeldBy: {
		"heldby", "holdby", "placedby",
	},
	FieldChannel: {
		"channel", "acquiringchannel", "saleschannel",
	},
	FieldSegment: {
		"segment", "merchantsegment", "portfolio",
	},
	FieldHoldAmount: {
		"holdamount", "amountheld", "amountonhold", "heldamount", "amount",
	},
	FieldReleaseDate: {
		"releasedate", "datereleased", "dateofrelease",
	},
	FieldReleasedBy: {
		"releasedby", "releaseby",
	},
	FieldReleaseAmount: {
		"releaseamount", "amountreleased", "releasedamount",
	},
	FieldClosedDate: {
		"closeddate", "dateclosed", "closuredate",
	},
	FieldReason: {
		"reason", "holdreason", "reasonforhold",
	},
	FieldRemarks: {
		"remarks", "remark", "notes", "comments", "comment",
	},
	FieldAgingDays: {
		"agingdays", "aging", "daysonhold", "noofdays",
	},
	FieldAgingDuration: {
		"agingduration", "agingbucket", "duration",
	},
	FieldAddedBy: {
		"addedby", "encodedby", "processedby",
	},
	FieldChainID: {
		"chainid", "chain", "chainno",
	},
	FieldGroup: {
		"group", "merchantgroup", "grouping",
	},
	FieldTeamLead: {
		"teamlead", "teamleader", "tl",
	},
	FieldRelationshipManager: {
		"relationshipmanager", "rm", "rmname", "handler", "manager",
	},
}

// aliasTableVersion bumps whenever aliasSeed changes shape.
const aliasTableVersion = 1

// NewAliasTable builds the default alias table from the seed vocabulary.
func NewAliasTable() *AliasTable {
	t := &AliasTable{
		Version: aliasTableVersion,
		aliases: make(map[Field]map[string]bool, len(aliasSeed)),
	}
	for field, keys := range aliasSeed {
		set := make(map[string]bool, len(keys)+1)
		// A field's own normalized label always counts as an alias.
		set[Normalize(field.Label())] = true
		for _, k := range keys {
			set[k] = true
		}
		t.aliases[field] = set
	}
	return t
}

// Contains reports whether the normalized key is a known alias for field.
func (t *AliasTable) Contains(field Field, normalizedKey string) bool {
	set, ok := t.aliases[field]
	if !ok {
		return false
	}
	return set[normalizedKey]
}

// FieldFor performs the reverse lookup: which canonical field, if any,
// claims the normalized key. Iteration follows AllFields order so the
// answer is deterministic when vocabularies overlap.
func (t *AliasTable) FieldFor(normalizedKey string) (Field, bool) {
	if normalizedKey == "" {
		return "", false
	}
	for _, field := range AllFields {
		if t.aliases[field][normalizedKey] {
			return field, true
		}
	}
	return "", false
}

// Aliases returns a copy of the alias set for field, for callers that
// need to enumerate (ingestion header scoring).
func (t *AliasTable) Aliases(field Field) []string {
	set := t.aliases[field]
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
