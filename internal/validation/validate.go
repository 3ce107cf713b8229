package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/acmedash/invoice-api/internal/form"
)

// FieldErrors maps a field name to its ordered validation failure messages.
type FieldErrors map[string][]string

// Add appends a message for the named field.
func (e FieldErrors) Add(name, message string) {
	e[name] = append(e[name], message)
}

// Value is a coerced field value.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String returns the string form of the value.
func (v Value) String() string { return v.str }

// Number returns the numeric form of the value. Zero unless the field was
// declared KindNumber.
func (v Value) Number() float64 { return v.num }

// Record holds every coerced value of a valid submission.
type Record map[string]Value

// String returns the named field as a string.
func (r Record) String(name string) string { return r[name].str }

// Number returns the named field as a float.
func (r Record) Number(name string) float64 { return r[name].num }

// Outcome is a strict either/or: a validated Record, or a non-empty error map.
type Outcome struct {
	record Record
	errors FieldErrors
}

// OK reports whether validation produced a record.
func (o Outcome) OK() bool { return len(o.errors) == 0 }

// Record returns the validated record. Nil when validation failed.
func (o Outcome) Record() Record {
	if !o.OK() {
		return nil
	}
	return o.record
}

// Errors returns the field error map. Nil when validation succeeded.
func (o Outcome) Errors() FieldErrors {
	if o.OK() {
		return nil
	}
	return o.errors
}

// Apply checks every schema field against the extracted values. All fields
// are evaluated independently; the returned error map aggregates every
// violated field rather than stopping at the first.
func Apply(schema Schema, fields form.Fields) Outcome {
	record := make(Record, len(schema.Fields))
	errs := make(FieldErrors)

	for _, spec := range schema.Fields {
		raw, present := fields.Get(spec.Name)
		raw = strings.TrimSpace(raw)

		if !present || raw == "" {
			if spec.Required {
				errs.Add(spec.Name, spec.failure("is required"))
			}
			continue
		}

		switch spec.Kind {
		case KindNumber:
			// ParseFloat also accepts "NaN" and infinities; only finite
			// decimals are numbers here.
			num, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
				errs.Add(spec.Name, spec.failure("must be a number"))
				continue
			}
			if spec.GreaterThan != nil && num <= *spec.GreaterThan {
				errs.Add(spec.Name, spec.failure(fmt.Sprintf("must be greater than %v", *spec.GreaterThan)))
				continue
			}
			record[spec.Name] = Value{kind: KindNumber, str: raw, num: num}
		case KindEnum:
			if !contains(spec.Enum, raw) {
				errs.Add(spec.Name, spec.failure(fmt.Sprintf("must be one of: %s", strings.Join(spec.Enum, ", "))))
				continue
			}
			record[spec.Name] = Value{kind: KindEnum, str: raw}
		default:
			record[spec.Name] = Value{kind: KindString, str: raw}
		}
	}

	if len(errs) > 0 {
		return Outcome{errors: errs}
	}
	return Outcome{record: record}
}

func (s FieldSpec) failure(generic string) string {
	if s.Message != "" {
		return s.Message
	}
	return s.Name + " " + generic
}

func contains(set []string, value string) bool {
	for _, member := range set {
		if member == value {
			return true
		}
	}
	return false
}
