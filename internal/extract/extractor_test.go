package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) Recognize(path string) (string, error) {
	return f.text, f.err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseFormat(t *testing.T) {
	for _, ext := range []string{"json", "pdf", "png", "jpeg", "jpg", "txt", "xlsx", "csv", "pptx", "docx", "py", "zip", "pdb"} {
		_, ok := ParseFormat(ext)
		assert.True(t, ok, "extension %s should be supported", ext)
		_, ok = ParseFormat("." + ext)
		assert.True(t, ok, "dotted extension .%s should be supported", ext)
	}
	_, ok := ParseFormat(".exe")
	assert.False(t, ok)
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	e := New(nil)

	path := writeFile(t, dir, "notes.txt", []byte("hello world\n"))
	assert.Equal(t, "hello world\n", e.Extract(path))

	// Source files and pdb files read the same way.
	path = writeFile(t, dir, "script.py", []byte("print('hi')\n"))
	assert.Equal(t, "print('hi')\n", e.Extract(path))

	path = writeFile(t, dir, "data.json", []byte(`{"k":1}`))
	assert.Equal(t, `{"k":1}`, e.Extract(path))
}

func TestExtractTextLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	e := New(nil)

	// 0xE9 is 'é' in Latin-1 but invalid standalone UTF-8.
	path := writeFile(t, dir, "legacy.txt", []byte{'c', 'a', 'f', 0xE9})
	assert.Equal(t, "café", e.Extract(path))
}

func TestExtractUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	e := New(nil)

	path := writeFile(t, dir, "binary.exe", []byte{0x00})
	assert.Equal(t, "Unsupported file type: .exe", e.Extract(path))
}

func TestExtractMissingFileIsDiagnosticNotPanic(t *testing.T) {
	e := New(nil)
	got := e.Extract(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Contains(t, got, "Error processing file:")
}

func TestExtractCorruptFilesAreTotal(t *testing.T) {
	// Garbage bytes under every binary format must come back as a
	// diagnostic string, never an error or panic.
	dir := t.TempDir()
	e := New(&fakeOCR{err: fmt.Errorf("unreadable image")})

	for _, name := range []string{"f.pdf", "f.docx", "f.pptx", "f.xlsx", "f.zip", "f.png"} {
		path := writeFile(t, dir, name, []byte("not a real file"))
		got := e.Extract(path)
		assert.Contains(t, got, "Error processing file:", "format %s", name)
	}
}

func TestExtractCSVCanonicalizes(t *testing.T) {
	dir := t.TempDir()
	e := New(nil)

	// Redundant quoting disappears in the canonical form.
	path := writeFile(t, dir, "table.csv", []byte("a,\"b\",c\n\"1\",2,3\n"))
	assert.Equal(t, "a,b,c\n1,2,3\n", e.Extract(path))
}

func TestExtractXLSX(t *testing.T) {
	dir := t.TempDir()
	e := New(nil)

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "score"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "alpha"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 42))
	path := filepath.Join(dir, "scores.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	assert.Equal(t, "name,score\nalpha,42\n", e.Extract(path))
}

func TestExtractImageJoinsFragments(t *testing.T) {
	dir := t.TempDir()
	e := New(&fakeOCR{text: "line one\nline  two"})

	path := writeFile(t, dir, "scan.png", []byte("png-ish"))
	assert.Equal(t, "line one line two", e.Extract(path))
}

func TestExtractImageWithoutOCR(t *testing.T) {
	dir := t.TempDir()
	e := New(nil)

	path := writeFile(t, dir, "scan.jpg", []byte("jpg-ish"))
	assert.Contains(t, e.Extract(path), "no OCR engine configured")
}
