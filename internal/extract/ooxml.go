package extract

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
)

// OOXML documents (docx, pptx) are zip containers of XML parts. The text
// lives in `t` elements; paragraph boundaries are `p` elements.

// extractDOCX concatenates paragraph text from word/document.xml in
// document order, one paragraph per line.
func extractDOCX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening docx document part: %w", err)
		}
		defer rc.Close() //nolint:errcheck
		paragraphs, err := collectParagraphText(rc)
		if err != nil {
			return "", fmt.Errorf("parsing docx document part: %w", err)
		}
		return strings.Join(paragraphs, "\n"), nil
	}
	return "", fmt.Errorf("docx is missing word/document.xml")
}

var slidePartRE = regexp.MustCompile(`^ppt/slides/slide([0-9]+)\.xml$`)

// extractPPTX concatenates the text of every slide shape, slide order
// preserved, one paragraph of shape text per line.
func extractPPTX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening pptx: %w", err)
	}
	defer r.Close() //nolint:errcheck

	type slidePart struct {
		index int
		file  *zip.File
	}
	var slides []slidePart
	for _, f := range r.File {
		m := slidePartRE.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slidePart{index: idx, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var lines []string
	for _, slide := range slides {
		rc, err := slide.file.Open()
		if err != nil {
			return "", fmt.Errorf("opening slide %d: %w", slide.index, err)
		}
		paragraphs, err := collectParagraphText(rc)
		rc.Close() //nolint:errcheck
		if err != nil {
			return "", fmt.Errorf("parsing slide %d: %w", slide.index, err)
		}
		lines = append(lines, paragraphs...)
	}
	return strings.Join(lines, "\n"), nil
}

// collectParagraphText walks an OOXML part and returns the text of each
// paragraph (`p` element) that contains at least one text run (`t`
// element). Matching on local names covers both the wordprocessing (w:)
// and drawing (a:) namespaces.
func collectParagraphText(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		hasRun     bool
		textDepth  int
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				hasRun = false
				current.Reset()
			case "t":
				if inPara {
					textDepth++
					hasRun = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara && hasRun {
					paragraphs = append(paragraphs, current.String())
				}
				inPara = false
			case "t":
				if textDepth > 0 {
					textDepth--
				}
			}
		case xml.CharData:
			if textDepth > 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
