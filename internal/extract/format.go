package extract

import "strings"

// Format is the closed set of file formats the extractor understands.
// Adding a format means adding a constant here, a case in dispatch, and a
// handler — the exhaustive switch in dispatch keeps the three in sync.
type Format string

const (
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatJPG  Format = "jpg"
	FormatTXT  Format = "txt"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPPTX Format = "pptx"
	FormatDOCX Format = "docx"
	FormatPY   Format = "py"
	FormatZIP  Format = "zip"
	FormatPDB  Format = "pdb"
)

var formats = map[string]Format{
	"json": FormatJSON,
	"pdf":  FormatPDF,
	"png":  FormatPNG,
	"jpeg": FormatJPEG,
	"jpg":  FormatJPG,
	"txt":  FormatTXT,
	"xlsx": FormatXLSX,
	"csv":  FormatCSV,
	"pptx": FormatPPTX,
	"docx": FormatDOCX,
	"py":   FormatPY,
	"zip":  FormatZIP,
	"pdb":  FormatPDB,
}

// ParseFormat maps a file extension (with or without the leading dot, any
// case) to its Format. The second return is false for anything outside the
// supported set.
func ParseFormat(ext string) (Format, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	f, ok := formats[ext]
	return f, ok
}

// Supported reports whether the extension belongs to the supported set.
func Supported(ext string) bool {
	_, ok := ParseFormat(ext)
	return ok
}
