package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmountCurrencyPrefixed(t *testing.T) {
	res := ExtractAmount(Fold("Payment successful\nRs. 2,200\nUPI transaction"))
	assert.Equal(t, 2200, res.Amount)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, "currency-prefix", res.Source)
}

func TestExtractAmountDecimal(t *testing.T) {
	res := ExtractAmount(Fold("paid INR 1300.00 to merchant"))
	assert.Equal(t, 1300, res.Amount)
	assert.Equal(t, "currency-prefix", res.Source)
}

func TestExtractAmountDigitCorrection(t *testing.T) {
	// 'o' misread for '0': the direct pattern must not settle for the "22"
	// prefix, the correction link should produce 2200.
	res := ExtractAmount(Fold("payment successful rs 22oo upi ref"))
	assert.Equal(t, 2200, res.Amount)
	assert.Equal(t, "digit-correction", res.Source)
}

func TestExtractAmountDigitCorrectionLeadingLetter(t *testing.T) {
	res := ExtractAmount(Fold("debited rs l300 from account"))
	assert.Equal(t, 1300, res.Amount)
	assert.Equal(t, "digit-correction", res.Source)
}

func TestExtractAmountContextLine(t *testing.T) {
	// No currency marker anywhere; the label line and the value line are
	// separate rows, as PhonePe renders them.
	res := ExtractAmount(Fold("Transaction successful\nAmount\n1800\nref id 99"))
	assert.Equal(t, 1800, res.Amount)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
	assert.Equal(t, "context-line", res.Source)
}

func TestExtractAmountContextLineAbove(t *testing.T) {
	// Some layouts render the value above its label. The line before a
	// context word counts as a neighbor too; without it this read drops to
	// the low-confidence fallbacks and the payment needlessly goes pending.
	res := ExtractAmount(Fold("Transaction successful\n1750\nAmount\nto merchant"))
	assert.Equal(t, 1750, res.Amount)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
	assert.Equal(t, "context-line", res.Source)
}

func TestExtractAmountPrefersKnownFee(t *testing.T) {
	// Neither a currency marker nor a context word. The fee-table link must
	// pick 1300 over the larger reference number.
	res := ExtractAmount(Fold("transaction ref 45678\nvalue 1300\nupi"))
	assert.Equal(t, 1300, res.Amount)
	assert.Equal(t, ConfidenceLow, res.Confidence)
	assert.Equal(t, "fee-table", res.Source)
}

func TestExtractAmountLargestFallback(t *testing.T) {
	res := ExtractAmount(Fold("screenshot 777 and 1250 nothing else"))
	assert.Equal(t, 1250, res.Amount)
	assert.Equal(t, "largest-number", res.Source)
}

func TestExtractAmountNone(t *testing.T) {
	res := ExtractAmount(Fold("no numbers at all"))
	assert.Equal(t, ConfidenceNone, res.Confidence)
}

func TestFixDigitsLeavesWordsAlone(t *testing.T) {
	// Mostly-letter tokens must survive untouched or "paid to bob" turns
	// into numeric soup.
	assert.Equal(t, "bob", fixDigits("bob"))
	assert.Equal(t, "successful", fixDigits("successful"))
	assert.Equal(t, "2200", fixDigits("22oo"))
	assert.Equal(t, "1300", fixDigits("l300"))
}

func TestParseAmountBounds(t *testing.T) {
	_, ok := parseAmount("5")
	require.False(t, ok, "below plausible floor")
	_, ok = parseAmount("9876543210")
	require.False(t, ok, "phone numbers are not amounts")
	n, ok := parseAmount("2,200")
	require.True(t, ok)
	assert.Equal(t, 2200, n)
}
