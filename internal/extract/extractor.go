// Package extract normalizes heterogeneous file formats into plain text
// for prompt inclusion. Extraction is total: every per-file failure is
// converted into a one-line diagnostic string at the point the file's text
// would have appeared, so a bad file can never abort the pipeline.
package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// OCR recognizes text in an image file. Fragments are returned as a single
// string; layout and positions are discarded.
type OCR interface {
	Recognize(path string) (string, error)
}

// Extractor converts supported files to plain text. The zero value works
// for every format except images, which need an OCR engine.
type Extractor struct {
	ocr OCR
}

// New creates an Extractor. ocr may be nil, in which case image files
// degrade to a diagnostic line.
func New(ocr OCR) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract returns the plain text for the file at path, dispatching on the
// file extension. It never fails: unsupported extensions and extraction
// errors both come back as descriptive sentinel strings.
func (e *Extractor) Extract(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := ParseFormat(ext)
	if !ok {
		return fmt.Sprintf("Unsupported file type: %s", ext)
	}
	text, err := e.extract(path, format)
	if err != nil {
		return fmt.Sprintf("Error processing file: %v", err)
	}
	return text
}

// extract dispatches to the per-format handler. The switch is exhaustive
// over Format; the final return is unreachable for parsed formats.
func (e *Extractor) extract(path string, format Format) (string, error) {
	switch format {
	case FormatTXT, FormatPY, FormatPDB, FormatJSON:
		return readTextFile(path)
	case FormatPDF:
		return extractPDF(path)
	case FormatDOCX:
		return extractDOCX(path)
	case FormatPPTX:
		return extractPPTX(path)
	case FormatCSV:
		return canonicalCSVFile(path)
	case FormatXLSX:
		return extractXLSX(path)
	case FormatPNG, FormatJPG, FormatJPEG:
		return e.extractImage(path)
	case FormatZIP:
		return e.extractArchive(path)
	}
	return "", fmt.Errorf("no handler for format %q", format)
}

// readTextFile reads a file as UTF-8 text. Files that are not valid UTF-8
// are decoded permissively as Latin-1 so no byte sequence can fail.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return decodeLatin1(data), nil
}

// decodeLatin1 maps each byte to the equivalent code point. Lossless for
// any input, which is the point of the fallback.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// extractPDF extracts per-page text in page order, newline separated.
// Pages yielding no text contribute nothing.
func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting pdf page %d: %w", i, err)
		}
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// canonicalCSVFile parses a CSV file and re-serializes it, normalizing
// quoting and delimiters across inputs.
func canonicalCSVFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parsing csv: %w", err)
	}
	return canonicalCSV(records)
}

// canonicalCSV serializes rows back to CSV text. This is the shared
// normal form for tabular inputs (csv and xlsx).
func canonicalCSV(records [][]string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("serializing csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("serializing csv: %w", err)
	}
	return b.String(), nil
}

// extractXLSX reads the first sheet of a workbook into rows and emits the
// canonical CSV form.
func extractXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("reading xlsx sheet %s: %w", sheets[0], err)
	}
	return canonicalCSV(rows)
}

// extractImage runs OCR and joins the detected fragments with single
// spaces, discarding layout.
func (e *Extractor) extractImage(path string) (string, error) {
	if e.ocr == nil {
		return "", fmt.Errorf("no OCR engine configured for image extraction")
	}
	text, err := e.ocr.Recognize(path)
	if err != nil {
		return "", fmt.Errorf("running OCR: %w", err)
	}
	return strings.Join(strings.Fields(text), " "), nil
}
