package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// AmountResult is one extractor's verdict. Source names the heuristic that
// produced the amount so a rejected proof can say how the number was read.
type AmountResult struct {
	Amount     int
	Confidence Confidence
	Source     string
}

// amountExtractor is one link in the extraction chain. Returns ok=false to
// pass the text to the next link.
type amountExtractor struct {
	name       string
	confidence Confidence
	extract    func(folded string) (int, bool)
}

// amountChain is ordered by reliability. First link to produce a plausible
// amount wins; later links only ever see text the earlier ones gave up on.
var amountChain = []amountExtractor{
	{"currency-prefix", ConfidenceHigh, extractCurrencyPrefixed},
	{"digit-correction", ConfidenceHigh, extractDigitCorrected},
	{"context-line", ConfidenceMedium, extractContextLine},
	{"fee-table", ConfidenceLow, extractKnownFee},
	{"largest-number", ConfidenceLow, extractLargest},
}

// ExtractAmount runs the chain over folded text. Confidence is None when no
// link produced anything.
func ExtractAmount(folded string) AmountResult {
	for _, ex := range amountChain {
		if amt, ok := ex.extract(folded); ok {
			return AmountResult{Amount: amt, Confidence: ex.confidence, Source: ex.name}
		}
	}
	return AmountResult{Source: "none"}
}

var (
	currencyRe = regexp.MustCompile(`(?:rs\.?|inr|rup(?:ee)?s?)\s*:?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	numberRe   = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]{1,2})?`)
)

// plausibleAmount bounds what can be a transaction value. Screenshots are
// full of phone numbers, dates and reference ids; anything outside these
// bounds is noise.
func plausibleAmount(n int) bool {
	return n >= 10 && n <= 100000
}

func parseAmount(tok string) (int, bool) {
	tok = strings.ReplaceAll(tok, ",", "")
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	n := int(f + 0.5)
	if !plausibleAmount(n) {
		return 0, false
	}
	return n, true
}

// extractCurrencyPrefixed matches amounts directly behind a currency marker.
// The unidecode fold turns the rupee sign into "rs", so one pattern covers
// both the symbol and the abbreviation. A number that runs straight into
// letters ("rs 22oo") is skipped here: that is confused-digit territory and
// the next link owns it.
func extractCurrencyPrefixed(folded string) (int, bool) {
	for _, m := range currencyRe.FindAllStringSubmatchIndex(folded, -1) {
		start, end := m[2], m[3]
		if end < len(folded) && folded[end] >= 'a' && folded[end] <= 'z' {
			continue
		}
		if n, ok := parseAmount(folded[start:end]); ok {
			return n, true
		}
	}
	return 0, false
}

// extractDigitCorrected retries the currency pattern after rewriting
// confusable characters in number-like tokens ("rs 22OO" -> "rs 2200").
func extractDigitCorrected(folded string) (int, bool) {
	fields := strings.Fields(folded)
	changed := false
	for i, f := range fields {
		if fixed := fixDigits(f); fixed != f {
			fields[i] = fixed
			changed = true
		}
	}
	if !changed {
		return 0, false
	}
	return extractCurrencyPrefixed(strings.Join(fields, " "))
}

var amountContextWords = []string{"amount", "paid", "total", "sent", "debited", "credited"}

// extractContextLine looks for numbers on lines mentioning an amount word,
// or on the neighboring lines (apps often put the label and the value on
// separate rows, in either order).
func extractContextLine(folded string) (int, bool) {
	lines := Lines(folded)
	for i, ln := range lines {
		hit := false
		for _, w := range amountContextWords {
			if strings.Contains(ln, w) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		candidates := []string{ln}
		if i+1 < len(lines) {
			candidates = append(candidates, lines[i+1])
		}
		if i > 0 {
			candidates = append(candidates, lines[i-1])
		}
		for _, c := range candidates {
			for _, tok := range numberRe.FindAllString(fixDigitsInline(c), -1) {
				if n, ok := parseAmount(tok); ok {
					return n, true
				}
			}
		}
	}
	return 0, false
}

func fixDigitsInline(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = fixDigits(f)
	}
	return strings.Join(fields, " ")
}

// knownFees are amounts a registrant can actually owe: the per-event fees,
// every fee sum reachable within the four-event cap, and the small legacy
// fees older cycles charged.
var knownFees = []int{
	70, 100, 200,
	900, 1300, 1800, 2200, 2600, 2700,
	3100, 3500, 3600, 3900, 4000, 4400, 4800, 5200,
}

// extractKnownFee prefers any number that lands exactly on the fee table; a
// recognized fee beats an arbitrary larger number further down the text.
func extractKnownFee(folded string) (int, bool) {
	for _, tok := range numberRe.FindAllString(folded, -1) {
		n, ok := parseAmount(tok)
		if !ok {
			continue
		}
		for _, fee := range knownFees {
			if n == fee {
				return n, true
			}
		}
	}
	return 0, false
}

// extractLargest is the last resort: the largest plausible number anywhere.
func extractLargest(folded string) (int, bool) {
	best := 0
	for _, tok := range numberRe.FindAllString(folded, -1) {
		if n, ok := parseAmount(tok); ok && n > best {
			best = n
		}
	}
	return best, best > 0
}
