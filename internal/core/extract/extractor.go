// Package extract converts uploaded files into plain text by detected type.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"github.com/studypal-app/studypal/internal/core"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content, choosing the
// parsing strategy from the file extension.
func (e *Extractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", core.ErrExtraction, filepath.Base(path), err)
	}
	return e.ExtractBytes(data, filepath.Ext(path))
}

// ExtractBytes extracts text from data based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
//
// PDF pages and DOCX paragraphs are concatenated with newline separators;
// plain text is returned verbatim. Any other extension falls back to the
// generic docconv partitioner.
func (e *Extractor) ExtractBytes(data []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	case ".txt":
		return string(data), nil
	default:
		return extractGeneric(data, ext)
	}
}

// extractDocx pulls paragraph text out of a .docx file.
func extractDocx(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", core.ErrExtraction, err)
	}
	return text, nil
}

// extractGeneric handles every extension without a dedicated parser. docconv
// segments the file into logical elements and returns their concatenated
// string representations.
func extractGeneric(data []byte, ext string) (string, error) {
	mime := docconv.MimeTypeByExtension("file" + ext)
	res, err := docconv.Convert(bytes.NewReader(data), mime, false)
	if err != nil {
		return "", fmt.Errorf("%w: convert %s: %v", core.ErrExtraction, ext, err)
	}
	return res.Body, nil
}
