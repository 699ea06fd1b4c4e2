package schema

import "github.com/raunak-choudhary/portfolio-admin/internal/store"

// Certifications holds professional certification records: issuer,
// credential metadata, and scanned certificate files.
var Certifications = register(&Collection{
	Name:      "certifications",
	Title:     "Certifications",
	Required:  []string{"title", "issuer"},
	SlugField: "title",
	Lists: map[string]ListRule{
		"skills": {MaxItems: 15, MaxItemLength: 100},
	},
	Attachments: map[string]AttachmentRule{
		"certificate_files": {MaxSize: "10MB", MIMETypes: documentMIMETypes, Multi: true},
		"badge_image":       {MaxSize: "5MB", MIMETypes: imageMIMETypes},
	},
	validate: func(f store.Fields) map[string]string {
		errs := map[string]string{}
		checkMaxLength(errs, f, "title", 200)
		checkMaxLength(errs, f, "issuer", 200)
		checkDateOrder(errs, f, "issue_date", "expiry_date")
		checkURL(errs, f, "credential_url")
		return errs
	},
})
