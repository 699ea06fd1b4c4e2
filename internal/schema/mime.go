package schema

// Shared MIME allow-lists for attachment fields.
var (
	imageMIMETypes    = []string{"image/png", "image/jpeg", "image/webp"}
	documentMIMETypes = []string{"application/pdf", "image/png", "image/jpeg", "image/webp"}
)
