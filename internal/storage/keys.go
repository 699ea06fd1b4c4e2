package storage

import (
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

const maxSlugLength = 40

// ObjectKey builds a collision-resistant storage key for an attachment,
// namespaced by collection and a slug of a human-meaningful field value.
func ObjectKey(collection, slugValue, filename string) string {
	return fmt.Sprintf("%s/%s-%d/%s",
		collection, Slugify(slugValue), time.Now().UnixNano(), SanitizeFilename(filename))
}

// Slugify lowercases a value and reduces it to alphanumerics joined by
// dashes, capped in length. Values with nothing usable become "record".
func Slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
		if b.Len() >= maxSlugLength {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "record"
	}
	return slug
}

// SanitizeFilename strips any path component and replaces characters that
// are unsafe in keys or filesystems.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	replacer := strings.NewReplacer(
		" ", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}

// DetectContentType resolves an upload's media type, preferring the file
// extension and falling back to content sniffing.
func DetectContentType(filename string, data []byte) string {
	if byExt := mime.TypeByExtension(path.Ext(filename)); byExt != "" {
		if mediatype, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediatype
		}
	}
	contentType := http.DetectContentType(data)
	if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediatype
	}
	return contentType
}
