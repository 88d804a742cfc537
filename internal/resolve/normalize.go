// Package resolve turns a raw business name into a confidently-chosen
// official website URL, backed by a durable name-to-URL cache.
package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// suffixRe matches legal/organizational suffix tokens as whole words.
// Longer alternatives come first so "inc" never clips "incorporated".
var suffixRe = regexp.MustCompile(`\b(incorporated|inc|corporation|corp|company|co|llc|l\.l\.c|limited|ltd|group|holdings|partners|technologies|technology|tech|systems|solutions|services)\b`)

// punctReplacer folds the separators that commonly decorate directory names.
var punctReplacer = strings.NewReplacer(
	",", " ",
	".", " ",
	"-", " ",
	"&", " ",
	"/", " ",
	"|", " ",
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// foldDiacritics strips combining marks so "Café Brûlée" compares as
// "Cafe Brulee".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes an entity name for similarity comparison:
// lower-case, diacritics folded, legal suffixes removed as whole words,
// separator punctuation collapsed to single spaces. The result is used for
// scoring only, never for display or as a cache key.
func Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}

	if folded, _, err := transform.String(foldDiacritics, name); err == nil {
		name = folded
	}

	// Strip suffix tokens before punctuation folding so dotted forms
	// ("l.l.c") are still matchable.
	name = suffixRe.ReplaceAllString(name, " ")
	name = punctReplacer.Replace(name)

	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
