package schema

import "github.com/raunak-choudhary/portfolio-admin/internal/store"

// Leadership holds leadership and volunteering entries.
var Leadership = register(&Collection{
	Name:      "leadership",
	Title:     "Leadership",
	Required:  []string{"title", "organization"},
	SlugField: "title",
	Lists: map[string]ListRule{
		"responsibilities": {MaxItems: 20, MaxItemLength: 300},
	},
	Attachments: map[string]AttachmentRule{
		"photo": {MaxSize: "5MB", MIMETypes: imageMIMETypes},
	},
	validate: func(f store.Fields) map[string]string {
		errs := map[string]string{}
		checkMaxLength(errs, f, "title", 200)
		checkMaxLength(errs, f, "organization", 200)
		checkDateOrder(errs, f, "start_date", "end_date")
		return errs
	},
})
