package pdf

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// registered decoders for logo/footer validation
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// FitMode selects how the footer image is scaled into the page.
type FitMode string

const (
	// FitProportional bounds the image by the configured height and the
	// available width, preserving aspect ratio.
	FitProportional FitMode = "proportional"

	// FitFixedHeight renders at exactly the configured height, scaling
	// width, still bounded by the available width.
	FitFixedHeight FitMode = "fixed-height"

	// FitFullWidth renders at exactly the available width, scaling height,
	// bounded by the footer height ceiling.
	FitFullWidth FitMode = "full-width"
)

// IsValid reports whether the mode is one of the known values.
func (m FitMode) IsValid() bool {
	switch m {
	case FitProportional, FitFixedHeight, FitFullWidth:
		return true
	}
	return false
}

// ParseFitMode parses a fit mode, defaulting to proportional.
func ParseFitMode(s string) FitMode {
	m := FitMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return FitProportional
	}
	return m
}

// pxToMM converts CSS pixels (96 dpi) to millimeters, the document unit.
const pxToMM = 25.4 / 96.0

// maxFooterHeightMM caps the footer image in full-width mode.
const maxFooterHeightMM = 60.0

// fitImage computes the rendered size for an image of intrinsic size
// (iw, ih) under the given mode. targetH and availW are in millimeters.
func fitImage(mode FitMode, iw, ih, availW, targetH float64) (w, h float64) {
	if iw <= 0 || ih <= 0 || availW <= 0 || targetH <= 0 {
		return 0, 0
	}

	switch mode {
	case FitFixedHeight:
		h = targetH
		w = iw * targetH / ih
		if w > availW {
			scale := availW / w
			w = availW
			h *= scale
		}
	case FitFullWidth:
		w = availW
		h = ih * availW / iw
		if h > maxFooterHeightMM {
			scale := maxFooterHeightMM / h
			h = maxFooterHeightMM
			w *= scale
		}
	default: // FitProportional
		scale := availW / iw
		if s := targetH / ih; s < scale {
			scale = s
		}
		w = iw * scale
		h = ih * scale
	}
	return w, h
}

// decodeImage validates image bytes and returns the gofpdf image type tag
// and intrinsic pixel size. A decode failure is reported to the caller,
// which degrades to rendering without the image.
func decodeImage(data []byte) (imageType string, w, h int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode image: %w", err)
	}
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	case "gif":
		imageType = "GIF"
	default:
		return "", 0, 0, fmt.Errorf("unsupported image format %q", format)
	}
	return imageType, cfg.Width, cfg.Height, nil
}
