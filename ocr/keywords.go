package ocr

import "strings"

// paymentKeywords is the screenshot gate. Fewer than MinKeywordHits of these
// in the folded text means the image is not a payment screenshot at all.
var paymentKeywords = []string{
	"paid",
	"payment",
	"success",
	"successful",
	"transaction",
	"upi",
	"debited",
	"credited",
	"sent",
	"received",
	"transfer",
	"txn",
	"ref no",
	"reference",
}

const MinKeywordHits = 2

// KeywordHits counts distinct gate keywords present in folded text.
func KeywordHits(folded string) int {
	hits := 0
	for _, kw := range paymentKeywords {
		if strings.Contains(folded, kw) {
			hits++
		}
	}
	return hits
}

// knownApps maps detection substrings to canonical app names. Ordered:
// "google pay" must win over a bare "pay" fragment elsewhere.
var knownApps = []struct {
	needle string
	name   string
}{
	{"google pay", "GPay"},
	{"gpay", "GPay"},
	{"g pay", "GPay"},
	{"phonepe", "PhonePe"},
	{"phone pe", "PhonePe"},
	{"paytm", "Paytm"},
	{"bhim", "BHIM"},
	{"amazon pay", "AmazonPay"},
	{"whatsapp", "WhatsApp Pay"},
	{"cred", "CRED"},
	{"mobikwik", "MobiKwik"},
	{"freecharge", "Freecharge"},
}

// DetectApp returns the canonical payment-app name found in folded text,
// or "" when none matches.
func DetectApp(folded string) string {
	for _, app := range knownApps {
		if strings.Contains(folded, app.needle) {
			return app.name
		}
	}
	return ""
}
