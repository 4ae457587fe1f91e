package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when neither the course code nor the name survives
// normalization.
const fallbackSlug = "course"

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe identifier base: diacritics stripped,
// lower-cased, with runs of characters outside [a-z0-9] collapsed into a
// single hyphen and leading/trailing hyphens trimmed. Returns the empty
// string when nothing survives.
func Slugify(s string) string {
	flattened, _, err := transform.String(stripMarks, s)
	if err != nil {
		flattened = s
	}

	flattened = strings.ToLower(flattened)

	var b strings.Builder
	b.Grow(len(flattened))
	pendingHyphen := false
	for _, r := range flattened {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}
