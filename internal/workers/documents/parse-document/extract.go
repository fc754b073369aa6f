// internal/workers/documents/parse-document/extract.go
package parsedocument

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var extensions = map[string]DocumentType{
	".txt":  DocumentText,
	".csv":  DocumentText,
	".md":   DocumentText,
	".xlsx": DocumentExcel,
	".docx": DocumentWord,
	".pdf":  DocumentPDF,
	".jpg":  DocumentImage,
	".jpeg": DocumentImage,
	".png":  DocumentImage,
	".bmp":  DocumentImage,
	".tiff": DocumentImage,
}

var imageMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
}

func extractText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

// extractExcel renders every sheet as "Row n: a | b | c" lines.
func extractExcel(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("excel parsing failed: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("excel parsing failed on sheet %q: %w", sheet, err)
		}
		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		for i, row := range rows {
			if len(strings.Join(row, "")) == 0 {
				continue
			}
			fmt.Fprintf(&b, "Row %d: %s\n", i+1, strings.Join(row, " | "))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

// document.xml is inflated at most this many bytes per character of the text
// cap, plus headroom for the package boilerplate.
const (
	wordXMLBytesPerChar = 64
	wordXMLHeadroom     = 1 << 20
)

// extractWord reads the text runs of word/document.xml. Paragraphs become lines.
// Reading stops once more than maxChars characters are collected, and
// document.xml is never inflated past its byte budget.
func extractWord(data []byte, maxChars int) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("word parsing failed: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("word parsing failed: word/document.xml not found")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("word parsing failed: %w", err)
	}
	defer rc.Close()

	budget := int64(maxChars)*wordXMLBytesPerChar + wordXMLHeadroom
	lr := &io.LimitedReader{R: rc, N: budget}

	var b strings.Builder
	dec := xml.NewDecoder(lr)
	inText := false
	chars := 0
	for chars <= maxChars {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if lr.N <= 0 {
				if chars == 0 {
					return "", fmt.Errorf("word parsing failed: document.xml expands past %d bytes", budget)
				}
				break
			}
			return "", fmt.Errorf("word parsing failed: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
				chars++
			case "br", "cr":
				b.WriteByte('\n')
				chars++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
				chars++
			}
		case xml.CharData:
			if inText {
				b.Write(t)
				chars += utf8.RuneCount(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
