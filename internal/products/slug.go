package products

import (
	"strings"

	"github.com/google/uuid"
)

// makeSlug builds a URL-safe slug from the title plus a short random suffix so
// identical titles never collide on the unique index.
func makeSlug(title string) string {
	base := slugify(title)
	if base == "" {
		base = "listing"
	}
	return base + "-" + uuid.NewString()[:8]
}

func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
