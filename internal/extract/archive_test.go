package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArchiveBlocksAndSkips(t *testing.T) {
	// Extraction temp dirs must not outlive the call. Point TMPDIR at a
	// private dir so leftovers are observable.
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.zip")
	writeZip(t, archive, map[string]string{
		"readme.txt":     "hello",
		"notes/more.txt": "nested hello",
		"data.csv":       "a,b\n1,2\n",
		"binary.exe":     "\x00\x01",
		"image.bmp":      "bmp",
	})

	e := New(nil)
	got := e.Extract(archive)

	// 3 supported members produce extraction blocks, 2 unsupported
	// members produce skip labels.
	assert.Equal(t, 3, strings.Count(got, "Extracted from "))
	assert.Equal(t, 2, strings.Count(got, "Skipped unsupported file: "))
	assert.Contains(t, got, "Extracted from readme.txt:\nhello\n")
	assert.Contains(t, got, "Extracted from more.txt:\nnested hello\n")
	assert.Contains(t, got, "Extracted from data.csv:\na,b\n1,2\n")
	assert.Contains(t, got, "Skipped unsupported file: binary.exe\n")
	assert.Contains(t, got, "Skipped unsupported file: image.bmp\n")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "extraction temp dirs must be removed")
}

func TestExtractArchiveNested(t *testing.T) {
	dir := t.TempDir()

	var inner bytes.Buffer
	w := zip.NewWriter(&inner)
	f, err := w.Create("deep.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("buried treasure"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	outer := filepath.Join(dir, "outer.zip")
	writeZip(t, outer, map[string]string{
		"top.txt":   "surface",
		"inner.zip": inner.String(),
	})

	e := New(nil)
	got := e.Extract(outer)

	assert.Contains(t, got, "Extracted from top.txt:\nsurface\n")
	assert.Contains(t, got, "Extracted from inner.zip:\n")
	assert.Contains(t, got, "Extracted from deep.txt:\nburied treasure\n")
}

func TestExtractArchiveCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.zip", []byte("this is not a zip"))

	e := New(nil)
	assert.Contains(t, e.Extract(path), "Error processing file:")
}

func TestUnzipRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.CreateHeader(&zip.FileHeader{Name: "../escape.txt"})
	require.NoError(t, err)
	_, err = f.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	archive := filepath.Join(dir, "evil.zip")
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	err = unzip(archive, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes extraction dir")
}
