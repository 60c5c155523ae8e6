package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordHits(t *testing.T) {
	assert.Equal(t, 0, KeywordHits(Fold("a photo of a cat")))
	assert.Equal(t, 1, KeywordHits(Fold("invoice paid by cash")))
	assert.GreaterOrEqual(t, KeywordHits(Fold("payment successful via UPI")), 2)
}

func TestKeywordHitsCountsDistinct(t *testing.T) {
	// Repeating one keyword does not clear the gate.
	assert.Equal(t, 1, KeywordHits(Fold("paid paid paid paid")))
}

func TestDetectApp(t *testing.T) {
	assert.Equal(t, "GPay", DetectApp(Fold("Google Pay · payment successful")))
	assert.Equal(t, "PhonePe", DetectApp(Fold("PhonePe transaction id T123")))
	assert.Equal(t, "Paytm", DetectApp(Fold("paytm wallet debited")))
	assert.Equal(t, "", DetectApp(Fold("some bank statement")))
}

func TestFoldTransliterates(t *testing.T) {
	// Mixed-case and non-ASCII input must land in plain lower-case ASCII
	// before keyword search.
	folded := Fold("PAYMENT Réussi")
	assert.Equal(t, "payment reussi", folded)
}
