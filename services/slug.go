package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that do not decompose into a base letter plus a mark
var ligatures = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O", "đ", "d", "Đ", "D", "ł", "l", "Ł", "L",
)

// Slugify turns a title into a lowercase, hyphen-joined URL key.
// Accents are folded to ASCII, '@' becomes "at", '_' and whitespace separate words,
// and any other punctuation is dropped without splitting the word it sits in.
func Slugify(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, ligatures.Replace(title))
	if err != nil {
		folded = title
	}
	folded = strings.ReplaceAll(folded, "@", " at ")

	var slug strings.Builder
	pendingSeparator := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if pendingSeparator && slug.Len() > 0 {
				slug.WriteByte('-')
			}
			pendingSeparator = false
			slug.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingSeparator = true
		}
	}

	return slug.String()
}
