// Package extract pulls plain text out of resume files, dispatching on the
// file extension.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupported is returned for files whose extension has no extraction routine.
var ErrUnsupported = errors.New("unsupported file format")

// Supported reports whether an extraction routine exists for the file's
// extension. The check is case-insensitive.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".doc":
		return true
	default:
		return false
	}
}

// Text extracts the plain text content of the file at path. Corrupt or
// unreadable files yield a wrapped error; callers are expected to log and
// skip rather than abort the batch.
func Text(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfText(path)
	case ".docx", ".doc":
		return docxText(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		// A single bad page should not discard the rest of the document.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}

func docxText(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
