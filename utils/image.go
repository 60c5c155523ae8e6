package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// DecodeBase64Image decodes a data-URI or bare base64 payload into image
// bytes plus the detected content type.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	contentType := "image/png"
	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		payload = rest
		meta = strings.TrimPrefix(meta, "data:")
		if ct, _, found := strings.Cut(meta, ";"); found && ct != "" {
			contentType = ct
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image: %w", err)
	}
	return data, contentType, nil
}

// PreprocessScreenshot prepares an uploaded payment screenshot for text
// recognition: 2x bilinear upscale, then a grayscale contrast stretch.
// Phone screenshots come in small and washed out; recognition accuracy on
// the raw image is noticeably worse.
func PreprocessScreenshot(data []byte) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := src.Bounds()
	scaled := image.NewGray(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), src, b, xdraw.Over, nil)

	return stretchContrast(scaled), nil
}

// stretchContrast remaps gray levels so the darkest pixel hits 0 and the
// brightest hits 255.
func stretchContrast(img *image.Gray) *image.Gray {
	b := img.Bounds()
	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := img.GrayAt(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return img
	}
	span := int(hi) - int(lo)
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := int(img.GrayAt(x, y).Y)
			out.SetGray(x, y, color.Gray{Y: uint8((v - int(lo)) * 255 / span)})
		}
	}
	return out
}
