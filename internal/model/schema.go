package model

// Field types understood by the schema catalog.
const (
	FieldTypeText   = "text"
	FieldTypeDate   = "date"
	FieldTypeNumber = "number"
	FieldTypeBool   = "bool"
	FieldTypeLink   = "link"
)

// FieldDef describes a single field of a record type.
type FieldDef struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// FieldList is the ordered field set of one record type.
type FieldList []FieldDef

// Get returns the definition for name, or nil when the field is unknown.
func (fl FieldList) Get(name string) *FieldDef {
	for i := range fl {
		if fl[i].Name == name {
			return &fl[i]
		}
	}
	return nil
}

// Has reports whether the field exists on the record type.
func (fl FieldList) Has(name string) bool {
	return fl.Get(name) != nil
}
