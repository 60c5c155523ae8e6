package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the OCR service client and the notification
// dispatcher. 60s covers a slow OCR run on a large screenshot.
var HTTPClient = &http.Client{
	Timeout: 60 * time.Second,
}
