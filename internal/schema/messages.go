package schema

import (
	"net/mail"
	"strconv"

	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

// Message flag fields managed by the bulk coordinator.
const (
	MessageFieldRead       = "is_read"
	MessageFieldStarred    = "is_starred"
	MessageFieldArchived   = "is_archived"
	MessageFieldSpam       = "is_spam"
	MessageFieldArchivedAt = "archived_at"
)

// Messages holds inbound contact messages. Records originate from site
// visitors; the console only annotates and flags them, so no fields are
// required at save time.
var Messages = register(&Collection{
	Name:      "messages",
	Title:     "Messages",
	SlugField: "subject",
	validate: func(f store.Fields) map[string]string {
		errs := map[string]string{}
		if v := f.Scalar("email"); v != "" {
			if _, err := mail.ParseAddress(v); err != nil {
				errs["email"] = "must be a valid email address"
			}
		}
		checkMaxLength(errs, f, "admin_notes", 2000)
		return errs
	},
	normalize: func(f store.Fields) store.Fields {
		// Flags are stored as canonical "true"/"false" strings. Absent or
		// unparseable values materialize as "false" so the stored payload
		// always carries every flag and equality filters match fresh
		// messages.
		for _, field := range []string{
			MessageFieldRead, MessageFieldStarred, MessageFieldArchived, MessageFieldSpam,
		} {
			b, err := strconv.ParseBool(f.Scalar(field))
			if err != nil {
				b = false
			}
			f.SetScalar(field, strconv.FormatBool(b))
		}
		return f
	},
})
