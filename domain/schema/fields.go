package schema

// Field is one canonical attribute of a merchant record, independent of
// any particular table's column naming.
type Field string

const (
	FieldIdentifier          Field = "identifier"
	FieldName                Field = "name"
	FieldStatus              Field = "status"
	FieldHoldType            Field = "hold-type"
	FieldHoldDate            Field = "hold-date"
	FieldHeldBy              Field = "held-by"
	FieldChannel             Field = "channel"
	FieldSegment             Field = "segment"
	FieldHoldAmount          Field = "hold-amount"
	FieldReleaseDate         Field = "release-date"
	FieldReleasedBy          Field = "released-by"
	FieldReleaseAmount       Field = "release-amount"
	FieldClosedDate          Field = "closed-date"
	FieldReason              Field = "reason"
	FieldRemarks             Field = "remarks"
	FieldAgingDays           Field = "aging-days"
	FieldAgingDuration       Field = "aging-duration"
	FieldAddedBy             Field = "added-by"
	FieldChainID             Field = "chain-id"
	FieldGroup               Field = "group"
	FieldTeamLead            Field = "team-lead"
	FieldRelationshipManager Field = "relationship-manager"
)

// Kind declares how a field's values are normalized and rendered.
type Kind string

const (
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindCurrency Kind = "currency"
	KindEnum     Kind = "enum"
)

// fieldSpec pins the display label and value kind for one canonical field.
type fieldSpec struct {
	Label string
	Kind  Kind
}

var fieldSpecs = map[Field]fieldSpec{
	FieldIdentifier:          {"MID", KindText},
	FieldName:                {"Merchant Name", KindText},
	FieldStatus:              {"Status", KindEnum},
	FieldHoldType:            {"Hold Type", KindEnum},
	FieldHoldDate:            {"Hold Date", KindDate},
	FieldHeldBy:              {"Held By", KindText},
	FieldChannel:             {"Channel", KindEnum},
	FieldSegment:             {"Segment", KindEnum},
	FieldHoldAmount:          {"Hold Amount", KindCurrency},
	FieldReleaseDate:         {"Release Date", KindDate},
	FieldReleasedBy:          {"Released By", KindText},
	FieldReleaseAmount:       {"Release Amount", KindCurrency},
	FieldClosedDate:          {"Closed Date", KindDate},
	FieldReason:              {"Reason", KindText},
	FieldRemarks:             {"Remarks", KindText},
	FieldAgingDays:           {"Aging Days", KindText},
	FieldAgingDuration:       {"Aging Duration", KindText},
	FieldAddedBy:             {"Added By", KindText},
	FieldChainID:             {"Chain ID", KindText},
	FieldGroup:               {"Group", KindText},
	FieldTeamLead:            {"Team Lead", KindText},
	FieldRelationshipManager: {"Relationship Manager", KindText},
}

// AllFields lists every canonical field in form-rendering order.
var AllFields = []Field{
	FieldIdentifier,
	FieldName,
	FieldStatus,
	FieldHoldType,
	FieldHoldDate,
	FieldHeldBy,
	FieldChannel,
	FieldSegment,
	FieldHoldAmount,
	FieldReleaseDate,
	FieldReleasedBy,
	FieldReleaseAmount,
	FieldClosedDate,
	FieldReason,
	FieldRemarks,
	FieldAgingDays,
	FieldAgingDuration,
	FieldAddedBy,
	FieldChainID,
	FieldGroup,
	FieldTeamLead,
	FieldRelationshipManager,
}

// Label returns the field's display label, used for exact header matches
// and when materializing header rows for new sheets.
func (f Field) Label() string {
	if spec, ok := fieldSpecs[f]; ok {
		return spec.Label
	}
	return string(f)
}

// ValueKind returns the declared kind for the field, defaulting to text
// for unknown fields.
func (f Field) ValueKind() Kind {
	if spec, ok := fieldSpecs[f]; ok {
		return spec.Kind
	}
	return KindText
}

// IsValid reports whether f belongs to the canonical vocabulary.
func (f Field) IsValid() bool {
	_, ok := fieldSpecs[f]
	return ok
}
