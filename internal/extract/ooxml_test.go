package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip builds a zip file from member name -> content.
func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

const docxDocumentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

func TestExtractDOCX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	writeZip(t, path, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   docxDocumentXML,
	})

	e := New(nil)
	assert.Equal(t, "First paragraph\nSecond paragraph", e.Extract(path))
}

func TestExtractDOCXMissingDocumentPart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	writeZip(t, path, map[string]string{"[Content_Types].xml": "<Types/>"})

	e := New(nil)
	assert.Contains(t, e.Extract(path), "missing word/document.xml")
}

func slideXML(texts ...string) string {
	body := ""
	for _, s := range texts {
		body += `<p:sp><p:txBody><a:p><a:r><a:t>` + s + `</a:t></a:r></a:p></p:txBody></p:sp>`
	}
	return `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>` + body + `</p:spTree></p:cSld>
</p:sld>`
}

func TestExtractPPTXSlideOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pptx")
	// slide10 after slide2: ordering must be numeric, not lexical.
	writeZip(t, path, map[string]string{
		"ppt/slides/slide2.xml":  slideXML("second slide"),
		"ppt/slides/slide10.xml": slideXML("tenth slide"),
		"ppt/slides/slide1.xml":  slideXML("title", "subtitle"),
	})

	e := New(nil)
	assert.Equal(t, "title\nsubtitle\nsecond slide\ntenth slide", e.Extract(path))
}
