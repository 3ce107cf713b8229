// Package validation checks extracted form fields against a declarative
// schema and either yields a typed record or a per-field error map. Every
// field is checked in a single pass; failures aggregate instead of
// short-circuiting so callers can surface all problems at once.
package validation

// Kind declares the primitive expected for a field.
type Kind int

const (
	// KindString accepts any non-empty string.
	KindString Kind = iota
	// KindNumber coerces the raw string through decimal parsing.
	KindNumber
	// KindEnum accepts only members of the declared set.
	KindEnum
)

// FieldSpec describes one expected field. Message, when set, replaces the
// generic failure text for every violation of this field.
type FieldSpec struct {
	Name        string
	Kind        Kind
	Required    bool
	Enum        []string
	GreaterThan *float64
	Message     string
}

// Schema is the immutable shape of a record. The same schema applies to
// create and update; generated identifiers and timestamps are never part of it.
type Schema struct {
	Fields []FieldSpec
}

// Names returns the field names the schema expects, in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Float is a convenience for bound literals in schema declarations.
func Float(v float64) *float64 {
	return &v
}
