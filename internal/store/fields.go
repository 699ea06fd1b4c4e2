package store

import "slices"

// Fields is the mutable payload of a record: scalar values keyed by field
// name plus ordered string lists for tag-like fields. Absent keys and
// empty strings are equivalent.
type Fields struct {
	Scalars map[string]string   `json:"scalars,omitempty"`
	Lists   map[string][]string `json:"lists,omitempty"`
}

// NewFields returns an empty, initialized payload.
func NewFields() Fields {
	return Fields{
		Scalars: map[string]string{},
		Lists:   map[string][]string{},
	}
}

// Scalar returns the scalar value for name, or "" when absent.
func (f Fields) Scalar(name string) string {
	return f.Scalars[name]
}

// List returns the list value for name, or nil when absent.
func (f Fields) List(name string) []string {
	return f.Lists[name]
}

// SetScalar assigns a scalar value, initializing the map if needed.
func (f *Fields) SetScalar(name, value string) {
	if f.Scalars == nil {
		f.Scalars = map[string]string{}
	}
	f.Scalars[name] = value
}

// SetList assigns a list value, initializing the map if needed.
func (f *Fields) SetList(name string, values []string) {
	if f.Lists == nil {
		f.Lists = map[string][]string{}
	}
	f.Lists[name] = values
}

// Clone returns a deep copy of the payload.
func (f Fields) Clone() Fields {
	c := NewFields()
	for k, v := range f.Scalars {
		c.Scalars[k] = v
	}
	for k, v := range f.Lists {
		c.Lists[k] = slices.Clone(v)
	}
	return c
}

// Empty reports whether every scalar is blank and every list has no items.
func (f Fields) Empty() bool {
	for _, v := range f.Scalars {
		if v != "" {
			return false
		}
	}
	for _, v := range f.Lists {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// Equal reports structural equality: scalars by value, lists by
// order-sensitive content. Blank scalars and absent keys compare equal.
func (f Fields) Equal(other Fields) bool {
	for _, pair := range []struct{ a, b map[string]string }{
		{f.Scalars, other.Scalars},
		{other.Scalars, f.Scalars},
	} {
		for k, v := range pair.a {
			if v != pair.b[k] {
				return false
			}
		}
	}
	for _, pair := range []struct{ a, b map[string][]string }{
		{f.Lists, other.Lists},
		{other.Lists, f.Lists},
	} {
		for k, v := range pair.a {
			if len(v) == 0 && len(pair.b[k]) == 0 {
				continue
			}
			if !slices.Equal(v, pair.b[k]) {
				return false
			}
		}
	}
	return true
}

// Merge overlays other onto a copy of f: scalars overwrite by key, lists
// replace wholesale. Used for partial updates such as bulk flag changes.
func (f Fields) Merge(other Fields) Fields {
	m := f.Clone()
	for k, v := range other.Scalars {
		m.Scalars[k] = v
	}
	for k, v := range other.Lists {
		m.Lists[k] = slices.Clone(v)
	}
	return m
}
