package ocr

import (
	"context"
	"fmt"
	"image"
)

// Recognizer turns a preprocessed screenshot into raw text. The default
// implementation calls an external OCR service; tests plug in a stub. When
// the client already ran recognition in the browser, the raw text arrives in
// the request and the Recognizer is skipped entirely.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Expected is what the client claims the screenshot shows.
type Expected struct {
	Amount int
	UPI    string
}

// Result freezes the extracted data once verification finishes. Reason is
// populated only in the error state and always names the failed sub-check.
type Result struct {
	State    State
	Reason   string
	RawText  string
	App      string
	Amount   AmountResult
	Sender   string
	Receiver string
}

// AmountTolerance absorbs rounding between the declared value and what the
// recognizer read, in currency units.
const AmountTolerance = 1

// Verifier runs the screenshot checks. Progress, when set, is called with
// 0-100 as the stages complete so a caller can surface a bar; the run itself
// is synchronous.
type Verifier struct {
	Progress func(pct int)
}

func (v *Verifier) step(pct int) {
	if v.Progress != nil {
		v.Progress(pct)
	}
}

// Verify checks recognized text against expected values. Best-effort by
// construction: it gates obviously wrong uploads before a human reviews the
// proof, it is not a source of financial truth.
func (v *Verifier) Verify(rawText string, want Expected) Result {
	res := Result{State: StateValidating, RawText: rawText}
	folded := Fold(rawText)
	v.step(10)

	if hits := KeywordHits(folded); hits < MinKeywordHits {
		res.State = StateError
		res.Reason = "this does not look like a payment screenshot"
		return res
	}
	v.step(30)

	res.App = DetectApp(folded)

	res.Amount = ExtractAmount(folded)
	if res.Amount.Confidence == ConfidenceNone {
		res.State = StateError
		res.Reason = "could not read a payment amount from the screenshot"
		return res
	}
	v.step(60)

	if diff := res.Amount.Amount - want.Amount; diff > AmountTolerance || diff < -AmountTolerance {
		res.State = StateError
		res.Reason = fmt.Sprintf("screenshot shows %d but %d was expected", res.Amount.Amount, want.Amount)
		return res
	}
	v.step(80)

	upi := ExtractUPI(folded)
	res.Sender = upi.Sender
	res.Receiver = upi.Receiver
	if want.UPI != "" {
		if !UPIMatches(upi.Receiver, want.UPI) && !UPIMatches(upi.Sender, want.UPI) {
			res.State = StateError
			res.Reason = "the UPI id in the screenshot does not match the expected receiver"
			return res
		}
	}

	v.step(100)
	res.State = StateSuccess
	return res
}
