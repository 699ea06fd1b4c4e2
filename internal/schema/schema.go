// Package schema defines the content collection variants managed by the
// console. Each collection carries its own field rules, validation, and
// normalization; the console core stays generic over them.
package schema

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

// DateLayout is the wire format for date-valued scalar fields.
const DateLayout = "2006-01-02"

// ListRule bounds a tag-like list field.
type ListRule struct {
	// MaxItems caps the number of items in the list.
	MaxItems int

	// MaxItemLength caps a single item's character count. Longer items
	// are silently dropped rather than rejected with an error.
	MaxItemLength int
}

// AttachmentRule bounds an attachment field.
type AttachmentRule struct {
	// MaxSize is the upload ceiling in human notation, e.g. "5MB".
	MaxSize string

	// MIMETypes is the content type allow-list.
	MIMETypes []string

	// Multi marks the field as an ordered list of attachment URLs
	// rather than a single URL.
	Multi bool
}

// MaxBytes returns the parsed upload ceiling.
func (r AttachmentRule) MaxBytes() int64 {
	n, err := units.FromHumanSize(r.MaxSize)
	if err != nil {
		return 0
	}
	return n
}

// Allows reports whether the content type is on the allow-list.
func (r AttachmentRule) Allows(contentType string) bool {
	if mediatype, _, found := strings.Cut(contentType, ";"); found {
		contentType = strings.TrimSpace(mediatype)
	}
	for _, m := range r.MIMETypes {
		if strings.EqualFold(m, contentType) {
			return true
		}
	}
	return false
}

// Collection describes one managed content collection.
type Collection struct {
	// Name is the collection identifier, also its store table name.
	Name string

	// Title is the human-readable collection name.
	Title string

	// Required lists the scalar fields a record cannot be saved without.
	Required []string

	// SlugField names the scalar whose value namespaces attachment
	// storage keys (title, company, skill name).
	SlugField string

	// Lists holds the rules for every list-valued field.
	Lists map[string]ListRule

	// Attachments holds the rules for every attachment field.
	Attachments map[string]AttachmentRule

	// validate adds collection-specific rules beyond required fields.
	validate func(store.Fields) map[string]string

	// normalize adds collection-specific payload coercion.
	normalize func(store.Fields) store.Fields
}

// Validate checks the payload against the collection's rules and returns
// field-keyed error messages. An empty map means the payload may be saved.
func (c *Collection) Validate(f store.Fields) map[string]string {
	errs := map[string]string{}

	for _, name := range c.Required {
		if strings.TrimSpace(f.Scalar(name)) == "" {
			errs[name] = fmt.Sprintf("%s is required", strings.ReplaceAll(name, "_", " "))
		}
	}

	if status := f.Scalar("status"); status != "" && !store.Status(status).Validate() {
		errs["status"] = "status must be active, draft, or archived"
	}

	if c.validate != nil {
		for field, msg := range c.validate(f) {
			if _, taken := errs[field]; !taken {
				errs[field] = msg
			}
		}
	}
	return errs
}

// Normalize builds the save payload: scalars trimmed with blanks dropped
// (the empty-string-to-null coercion), list items trimmed, then any
// collection-specific coercion.
func (c *Collection) Normalize(f store.Fields) store.Fields {
	out := store.NewFields()

	for name, value := range f.Scalars {
		if value = strings.TrimSpace(value); value != "" {
			out.Scalars[name] = value
		}
	}
	for name, items := range f.Lists {
		kept := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				kept = append(kept, item)
			}
		}
		if len(kept) > 0 {
			out.Lists[name] = kept
		}
	}

	if c.normalize != nil {
		out = c.normalize(out)
	}
	return out
}

var registry = map[string]*Collection{}

func register(c *Collection) *Collection {
	registry[c.Name] = c
	return c
}

// Lookup returns the collection registered under name.
func Lookup(name string) (*Collection, bool) {
	c, ok := registry[name]
	return c, ok
}

// All returns every registered collection, sorted by name.
func All() []*Collection {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	collections := make([]*Collection, len(names))
	for i, name := range names {
		collections[i] = registry[name]
	}
	return collections
}

// parseDate parses a date-valued scalar.
func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, value)
	return t, err == nil
}

// checkDateOrder records errors when either date is malformed or the end
// precedes the start. Blank values are skipped; required-ness is handled
// separately.
func checkDateOrder(errs map[string]string, f store.Fields, startField, endField string) {
	start, startOK := time.Time{}, false
	if v := f.Scalar(startField); v != "" {
		if start, startOK = parseDate(v); !startOK {
			errs[startField] = "must be a date in YYYY-MM-DD form"
		}
	}

	v := f.Scalar(endField)
	if v == "" {
		return
	}
	end, ok := parseDate(v)
	if !ok {
		errs[endField] = "must be a date in YYYY-MM-DD form"
		return
	}
	if startOK && end.Before(start) {
		errs[endField] = fmt.Sprintf("must not be before %s", strings.ReplaceAll(startField, "_", " "))
	}
}

// checkIntRange validates an optional integer scalar against bounds.
func checkIntRange(errs map[string]string, f store.Fields, field string, min, max int) {
	v := f.Scalar(field)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < min || n > max {
		errs[field] = fmt.Sprintf("must be a number between %d and %d", min, max)
	}
}

// checkURL validates an optional URL scalar.
func checkURL(errs map[string]string, f store.Fields, field string) {
	v := f.Scalar(field)
	if v == "" {
		return
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs[field] = "must be an http(s) URL"
	}
}

// checkMaxLength validates a scalar's character count.
func checkMaxLength(errs map[string]string, f store.Fields, field string, max int) {
	if len([]rune(f.Scalar(field))) > max {
		errs[field] = fmt.Sprintf("must be at most %d characters", max)
	}
}
