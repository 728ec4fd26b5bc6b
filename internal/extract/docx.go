package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// documentXML mirrors the paragraph/run/text nesting of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// extractDOCX returns the raw paragraph text of a DOCX file, one line
// per paragraph. All formatting is discarded.
func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx failed: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open docx document part failed: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read docx document part failed: %w", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", fmt.Errorf("parse docx document xml failed: %w", err)
		}

		var result strings.Builder
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				result.WriteString("\n")
			}
			for _, run := range para.Runs {
				for _, text := range run.Text {
					result.WriteString(text.Content)
				}
			}
		}
		return strings.TrimSpace(result.String()), nil
	}

	return "", fmt.Errorf("docx has no word/document.xml part")
}
