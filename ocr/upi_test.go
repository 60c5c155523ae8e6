package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractUPIStrongContext(t *testing.T) {
	res := ExtractUPI(Fold("Paid to merchant@okaxis\nFrom: parent@ybl"))
	assert.Equal(t, "merchant@okaxis", res.Receiver)
	assert.Equal(t, "parent@ybl", res.Sender)
}

func TestExtractUPILabelOnLineAbove(t *testing.T) {
	res := ExtractUPI(Fold("Credited to\nmerchant@okhdfcbank\nDebited from\nparent@oksbi"))
	assert.Equal(t, "merchant@okhdfcbank", res.Receiver)
	assert.Equal(t, "parent@oksbi", res.Sender)
}

func TestExtractUPIPositionalFallback(t *testing.T) {
	// No labels at all; exactly two unassigned ids fill the two open slots
	// in reading order.
	res := ExtractUPI(Fold("upi ids involved\nfirst@ybl\nsecond@okaxis"))
	assert.Equal(t, "first@ybl", res.Sender)
	assert.Equal(t, "second@okaxis", res.Receiver)
}

func TestExtractUPINoGuessOnWrongCount(t *testing.T) {
	// Three unlabeled ids and two slots: guessing would assign noise, so
	// nothing is assigned positionally.
	res := ExtractUPI(Fold("a@ybl\nb@okaxis\nc@paytm"))
	assert.Empty(t, res.Sender)
	assert.Empty(t, res.Receiver)
}

func TestExtractUPINone(t *testing.T) {
	res := ExtractUPI(Fold("no ids in this text"))
	assert.Empty(t, res.Sender)
	assert.Empty(t, res.Receiver)
}

func TestUPIMatchesContainment(t *testing.T) {
	// OCR noise: containment in either direction counts, equality does not.
	assert.True(t, UPIMatches("merchant@okaxis", "merchant@okaxis"))
	assert.True(t, UPIMatches("xmerchant@okaxisy", "merchant@okaxis"))
	assert.True(t, UPIMatches("merchant@okaxis", "merchant@okaxis.ifsc"))
	assert.True(t, UPIMatches("merchant@okicici", "merchant@ybl"), "same local part, different handle")
	assert.False(t, UPIMatches("other@okaxis", "merchant@okaxis"))
	assert.False(t, UPIMatches("", "merchant@okaxis"))
}
