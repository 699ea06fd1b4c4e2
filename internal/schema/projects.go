package schema

import "github.com/raunak-choudhary/portfolio-admin/internal/store"

// Projects holds portfolio project records with a tech stack tag list.
var Projects = register(&Collection{
	Name:      "projects",
	Title:     "Projects",
	Required:  []string{"title", "description"},
	SlugField: "title",
	Lists: map[string]ListRule{
		"tech_stack": {MaxItems: 50, MaxItemLength: 50},
	},
	Attachments: map[string]AttachmentRule{
		"cover_image": {MaxSize: "5MB", MIMETypes: imageMIMETypes},
	},
	validate: func(f store.Fields) map[string]string {
		errs := map[string]string{}
		checkMaxLength(errs, f, "title", 200)
		checkMaxLength(errs, f, "description", 5000)
		checkURL(errs, f, "repo_url")
		checkURL(errs, f, "live_url")
		checkDateOrder(errs, f, "start_date", "end_date")
		return errs
	},
})
