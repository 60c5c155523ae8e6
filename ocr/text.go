package ocr

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes recognized text for keyword and pattern matching:
// NFKC-compose, transliterate to ASCII, lower-case. OCR output of the same
// screenshot varies wildly between engines; everything downstream works on
// the folded form.
func Fold(raw string) string {
	s := norm.NFKC.String(raw)
	s = unidecode.Unidecode(s)
	return strings.ToLower(s)
}

// Lines splits folded text into trimmed non-empty lines.
func Lines(folded string) []string {
	var out []string
	for _, ln := range strings.Split(folded, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// ocrDigitFixes maps characters the recognizer habitually confuses for
// digits. Applied only to substrings that are already mostly numeric.
var ocrDigitFixes = map[rune]rune{
	'b': '6',
	'g': '9',
	'l': '1',
	'i': '1',
	'o': '0',
	's': '5',
	'z': '2',
	'q': '9',
	'e': '8',
}

// fixDigits rewrites confusable characters in a number-like token. A token
// qualifies when at least half its characters are already digits, commas or
// dots; otherwise it is returned unchanged so ordinary words survive.
func fixDigits(token string) string {
	digitish := 0
	for _, r := range token {
		if unicode.IsDigit(r) || r == ',' || r == '.' {
			digitish++
		}
	}
	if digitish*2 < len([]rune(token)) {
		return token
	}
	var b strings.Builder
	for _, r := range token {
		if fixed, ok := ocrDigitFixes[r]; ok {
			b.WriteRune(fixed)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
