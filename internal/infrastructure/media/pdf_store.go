package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const pdfsSubdir = "pdfs"

// PDFStore handles book PDF storage.
type PDFStore struct {
	basePath string
}

// NewPDFStore creates a new PDFStore instance
func NewPDFStore(basePath string) *PDFStore {
	return &PDFStore{basePath: basePath}
}

var pdfPattern = regexp.MustCompile(`^data:application/pdf;base64,`)

// StorePDF decodes a base64 PDF upload and writes it under pdfs/. Returns
// the server-relative URL path for the stored file.
func (s *PDFStore) StorePDF(data, bookID string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty base64 data")
	}

	b64Data := pdfPattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	// A real PDF starts with the %PDF magic bytes.
	if !bytes.HasPrefix(decoded, []byte("%PDF")) {
		return "", fmt.Errorf("uploaded file is not a PDF")
	}

	targetDir := filepath.Join(s.basePath, pdfsSubdir)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pdfs directory: %w", err)
	}

	filename := fmt.Sprintf("%s.pdf", bookID)
	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write pdf file: %w", err)
	}

	return "/media/" + pdfsSubdir + "/" + filename, nil
}

// DeletePDF removes a stored PDF by its URL path. Missing files are not
// an error.
func (s *PDFStore) DeletePDF(pdfURL string) error {
	if pdfURL == "" {
		return nil
	}
	if !strings.HasPrefix(pdfURL, "/media/") {
		return fmt.Errorf("pdf path outside media root: %s", pdfURL)
	}

	fullPath := filepath.Join(s.basePath, strings.TrimPrefix(pdfURL, "/media/"))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pdf: %w", err)
	}
	return nil
}
