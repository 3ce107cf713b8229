// Package form pulls named fields out of submitted form payloads. Extraction
// is total: a missing field maps to nil and is reported later by validation,
// never here.
package form

import "net/url"

// Fields maps a field name to its raw submitted value. A nil value means the
// field was absent from the submission.
type Fields map[string]*string

// Extract restricts the submitted values to the expected field names. Only the
// first value is kept when a field was submitted more than once.
func Extract(src url.Values, names ...string) Fields {
	fields := make(Fields, len(names))
	for _, name := range names {
		if vals, ok := src[name]; ok && len(vals) > 0 {
			v := vals[0]
			fields[name] = &v
		} else {
			fields[name] = nil
		}
	}
	return fields
}

// Get returns the raw value and whether the field was present.
func (f Fields) Get(name string) (string, bool) {
	v, ok := f[name]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}
