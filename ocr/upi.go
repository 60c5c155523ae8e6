package ocr

import (
	"regexp"
	"strings"
)

// upiRe matches UPI virtual payment addresses. Same shape as an email local
// part plus handle, which OCR renders reliably enough to pattern-match.
var upiRe = regexp.MustCompile(`[a-z0-9][a-z0-9._-]*@[a-z][a-z0-9]*`)

// UPIResult carries both directions of a transfer. Either side may be empty
// when the screenshot only shows one party.
type UPIResult struct {
	Sender   string
	Receiver string
}

var (
	senderContexts   = []string{"from:", "from ", "debited from", "sent from", "sender"}
	receiverContexts = []string{"paid to", "credited to", "to:", "sent to", "received by", "receiver", "payee"}
)

// ExtractUPI pulls sender and receiver ids out of folded text in three
// passes: strong label context on the id's own line, the line above the id
// (labels and values often split across rows), then positional order for
// whatever remains unassigned.
func ExtractUPI(folded string) UPIResult {
	lines := Lines(folded)

	type found struct {
		id   string
		line int
	}
	var ids []found
	seen := map[string]bool{}
	for i, ln := range lines {
		for _, id := range upiRe.FindAllString(ln, -1) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, found{id: id, line: i})
			}
		}
	}
	if len(ids) == 0 {
		return UPIResult{}
	}

	var res UPIResult
	assigned := map[string]bool{}

	// Pass 1: label on the same line as the id. Receiver contexts are
	// checked first; "paid to x@bank" contains the bare "from"-less "to".
	for _, f := range ids {
		ln := lines[f.line]
		if res.Receiver == "" && containsAny(ln, receiverContexts) {
			res.Receiver = f.id
			assigned[f.id] = true
			continue
		}
		if res.Sender == "" && containsAny(ln, senderContexts) {
			res.Sender = f.id
			assigned[f.id] = true
		}
	}

	// Pass 2: label on the line above.
	for _, f := range ids {
		if assigned[f.id] || f.line == 0 {
			continue
		}
		above := lines[f.line-1]
		if res.Receiver == "" && containsAny(above, receiverContexts) {
			res.Receiver = f.id
			assigned[f.id] = true
			continue
		}
		if res.Sender == "" && containsAny(above, senderContexts) {
			res.Sender = f.id
			assigned[f.id] = true
		}
	}

	// Pass 3: positional. Only when the number of unassigned ids exactly
	// matches the number of open slots; guessing otherwise assigns noise.
	var remaining []string
	for _, f := range ids {
		if !assigned[f.id] {
			remaining = append(remaining, f.id)
		}
	}
	open := 0
	if res.Sender == "" {
		open++
	}
	if res.Receiver == "" {
		open++
	}
	if len(remaining) == open {
		for _, id := range remaining {
			if res.Sender == "" {
				res.Sender = id
			} else if res.Receiver == "" {
				res.Receiver = id
			}
		}
	}
	return res
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// UPIMatches compares a noisy extracted id against the expected one.
// Containment in either direction counts: OCR drops characters and the
// expected value may be a fragment ("name@okaxis" vs "name@okaxis.ifsc").
func UPIMatches(extracted, expected string) bool {
	if extracted == "" || expected == "" {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(extracted))
	b := strings.ToLower(strings.TrimSpace(expected))
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	// Fall back to comparing local parts; handles differ between the payer
	// app's display and the bank's canonical form.
	al, _, _ := strings.Cut(a, "@")
	bl, _, _ := strings.Cut(b, "@")
	return al != "" && al == bl
}
