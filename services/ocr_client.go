// services/ocr_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"

	"tournament-entry-system/utils"
)

// RemoteRecognizer sends the preprocessed screenshot to an external OCR
// service and returns the recognized text. The service is an opaque
// collaborator: one POST, one JSON response.
type RemoteRecognizer struct {
	BaseURL string
	Token   string
}

// NewRemoteRecognizer reads OCR_SERVICE_URL / OCR_SERVICE_TOKEN. Returns nil
// when unconfigured; callers must then require client-extracted text.
func NewRemoteRecognizer() *RemoteRecognizer {
	url := os.Getenv("OCR_SERVICE_URL")
	if url == "" {
		return nil
	}
	return &RemoteRecognizer{BaseURL: url, Token: os.Getenv("OCR_SERVICE_TOKEN")}
}

func (r *RemoteRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/recognize", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "image/png")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service returned %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("bad ocr service response: %w", err)
	}
	return out.Text, nil
}
