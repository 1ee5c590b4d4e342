package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ExtractDOCX pulls the linear text out of a Word document. A .docx is a zip
// container; the document body lives in word/document.xml and the visible
// text sits in <w:t> runs. Styling, tables-as-markup and embedded objects are
// discarded.
func ExtractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx is not a valid zip container: %w", err)
	}

	doc := findZipFile(zr, "word/document.xml")
	if doc == nil {
		return "", fmt.Errorf("docx missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("docx open document.xml: %w", err)
	}
	raw, readErr := io.ReadAll(rc)
	_ = rc.Close()
	if readErr != nil {
		return "", fmt.Errorf("docx read document.xml: %w", readErr)
	}

	text := gatherXMLText(raw, "t")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("docx contains no extractable text")
	}
	return text, nil
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// gatherXMLText concatenates the character data of every element whose local
// name matches tag, separated by single spaces.
func gatherXMLText(xmlBytes []byte, tag string) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != tag {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			if out.Len() > 0 {
				out.WriteString(" ")
			}
			out.WriteString(v)
		}
	}
	return out.String()
}
