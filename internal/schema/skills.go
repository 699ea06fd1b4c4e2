package schema

import (
	"strconv"
	"strings"

	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

// Skills holds individual skill records with a numeric proficiency rank.
var Skills = register(&Collection{
	Name:      "skills",
	Title:     "Skills",
	Required:  []string{"name", "category"},
	SlugField: "name",
	Lists: map[string]ListRule{
		"related": {MaxItems: 15, MaxItemLength: 50},
	},
	Attachments: map[string]AttachmentRule{
		"icon": {MaxSize: "2MB", MIMETypes: []string{"image/png", "image/jpeg", "image/webp", "image/svg+xml"}},
	},
	validate: func(f store.Fields) map[string]string {
		errs := map[string]string{}
		checkMaxLength(errs, f, "name", 100)
		checkMaxLength(errs, f, "category", 100)
		checkIntRange(errs, f, "rank", 1, 10)
		checkIntRange(errs, f, "years_experience", 0, 60)
		return errs
	},
	normalize: func(f store.Fields) store.Fields {
		// Ranks arrive as free text from the form; keep the canonical
		// integer spelling ("07" -> "7").
		for _, field := range []string{"rank", "years_experience"} {
			if v := f.Scalar(field); v != "" {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
					f.SetScalar(field, strconv.Itoa(n))
				}
			}
		}
		return f
	},
})
