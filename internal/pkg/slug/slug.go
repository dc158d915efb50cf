package slug

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxBaseLen = 60

// Make folds accents, lowercases and joins ASCII words of title with hyphens.
// "Ceremonia de Ayahuasca" becomes "ceremonia-de-ayahuasca". Empty input gives "listing".
func Make(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
		if b.Len() >= maxBaseLen {
			break
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "listing"
	}
	return s
}

// WithSuffix appends six hex characters taken from a fresh UUID.
func WithSuffix(title string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return Make(title) + "-" + id[:6]
}
