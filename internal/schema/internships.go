package schema

import "github.com/raunak-choudhary/portfolio-admin/internal/store"

// Internships holds work experience records with responsibility lists
// and a company logo.
var Internships = register(&Collection{
	Name:      "internships",
	Title:     "Internships",
	Required:  []string{"company", "role", "start_date"},
	SlugField: "company",
	Lists: map[string]ListRule{
		"responsibilities": {MaxItems: 20, MaxItemLength: 300},
	},
	Attachments: map[string]AttachmentRule{
		"company_logo": {MaxSize: "5MB", MIMETypes: imageMIMETypes},
	},
	validate: func(f store.Fields) map[string]string {
		errs := map[string]string{}
		checkMaxLength(errs, f, "company", 200)
		checkMaxLength(errs, f, "role", 200)
		checkDateOrder(errs, f, "start_date", "end_date")
		return errs
	},
})
