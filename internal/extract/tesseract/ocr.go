// Package tesseract provides the production OCR engine for image
// extraction, backed by the Tesseract C library via gosseract. It lives in
// its own package so the rest of the extractor builds without cgo.
package tesseract

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine implements extract.OCR using Tesseract.
type Engine struct{}

// New returns a Tesseract-backed OCR engine.
func New() *Engine {
	return &Engine{}
}

// Recognize runs OCR over the image at path and returns the raw detected
// text. A client is created per call; recognition is stateless and the
// extractor calls are strictly sequential within a session.
func (e *Engine) Recognize(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close() //nolint:errcheck

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("loading image %s: %w", path, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text in %s: %w", path, err)
	}
	return text, nil
}
