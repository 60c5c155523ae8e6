package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gpayScreenshot = `Google Pay
Payment successful
Rs. 2,200
To: tournament@okhdfcbank
From: parent@oksbi
UPI transaction ID: 928374651234`

func TestVerifySuccess(t *testing.T) {
	v := &Verifier{}
	res := v.Verify(gpayScreenshot, Expected{Amount: 2200, UPI: "tournament@okhdfcbank"})

	require.Equal(t, StateSuccess, res.State, res.Reason)
	assert.Equal(t, "GPay", res.App)
	assert.Equal(t, 2200, res.Amount.Amount)
	assert.Equal(t, "tournament@okhdfcbank", res.Receiver)
	assert.Equal(t, "parent@oksbi", res.Sender)
	assert.Empty(t, res.Reason)
}

func TestVerifyKeywordGate(t *testing.T) {
	v := &Verifier{}
	// Only one gate keyword present: not a payment screenshot.
	res := v.Verify("grocery list\npaid attention to nothing\n42", Expected{Amount: 42})
	assert.Equal(t, StateError, res.State)
	assert.Contains(t, res.Reason, "payment screenshot")
}

func TestVerifyAmountMismatch(t *testing.T) {
	v := &Verifier{}
	res := v.Verify(gpayScreenshot, Expected{Amount: 900, UPI: "tournament@okhdfcbank"})
	assert.Equal(t, StateError, res.State)
	assert.Contains(t, res.Reason, "2200")
	assert.Contains(t, res.Reason, "900")
}

func TestVerifyAmountTolerance(t *testing.T) {
	v := &Verifier{}
	// Off by one is within tolerance, off by two is not.
	res := v.Verify(gpayScreenshot, Expected{Amount: 2199, UPI: "tournament@okhdfcbank"})
	assert.Equal(t, StateSuccess, res.State, res.Reason)

	res = v.Verify(gpayScreenshot, Expected{Amount: 2198, UPI: "tournament@okhdfcbank"})
	assert.Equal(t, StateError, res.State)
}

func TestVerifyUPIMismatch(t *testing.T) {
	v := &Verifier{}
	res := v.Verify(gpayScreenshot, Expected{Amount: 2200, UPI: "someoneelse@paytm"})
	assert.Equal(t, StateError, res.State)
	assert.Contains(t, res.Reason, "UPI")
}

func TestVerifyNoExpectedUPISkipsCheck(t *testing.T) {
	v := &Verifier{}
	res := v.Verify(gpayScreenshot, Expected{Amount: 2200})
	assert.Equal(t, StateSuccess, res.State, res.Reason)
}

func TestVerifyProgressReaches100(t *testing.T) {
	last := 0
	v := &Verifier{Progress: func(pct int) { last = pct }}
	res := v.Verify(gpayScreenshot, Expected{Amount: 2200, UPI: "tournament@okhdfcbank"})
	require.Equal(t, StateSuccess, res.State)
	assert.Equal(t, 100, last)
}

func TestVerifyProgressStopsOnError(t *testing.T) {
	last := 0
	v := &Verifier{Progress: func(pct int) { last = pct }}
	res := v.Verify("random text with nothing", Expected{Amount: 100})
	require.Equal(t, StateError, res.State)
	assert.Less(t, last, 100)
}
