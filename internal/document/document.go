// Package document turns uploaded bytes into plain text for the segmenter.
// PDFs are read row by row so that each numbered question keeps its own line.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

var (
	ErrEmptyDocument   = errors.New("document is empty")
	ErrUnsupportedType = errors.New("unsupported document type")
)

// Extractor is the text extraction collaborator used by the upload flow.
type Extractor interface {
	ExtractText(fileName, contentType string, data []byte) (string, error)
}

// SniffingExtractor detects the real file type from magic bytes first and
// falls back to the declared content type and extension.
type SniffingExtractor struct{}

func NewExtractor() *SniffingExtractor {
	return &SniffingExtractor{}
}

func (SniffingExtractor) ExtractText(fileName, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	mt := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	if isPDF(data) {
		return ExtractPDF(data)
	}
	if mt == "application/pdf" || ext == ".pdf" {
		return "", fmt.Errorf("file claims pdf but has no %%PDF header: name=%s", fileName)
	}
	if mt == "text/plain" || ext == ".txt" || ext == ".md" || isProbablyText(data) {
		return ExtractPlainText(data)
	}
	return "", fmt.Errorf("%w: name=%s mime=%s", ErrUnsupportedType, fileName, contentType)
}

// ExtractPDF returns the text of every page, one line per text row.
func ExtractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			plain, perr := page.GetPlainText(nil)
			if perr != nil {
				return "", fmt.Errorf("pdf page %d: %w", i, err)
			}
			sb.WriteString(plain)
			sb.WriteByte('\n')
			continue
		}
		for _, row := range rows {
			sb.WriteString(joinRow(row.Content))
			sb.WriteByte('\n')
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyDocument
	}
	return out, nil
}

// joinRow concatenates the text items of one row, inserting a space where the
// PDF positions the next item after a horizontal gap instead of writing one.
func joinRow(items []pdf.Text) string {
	var sb strings.Builder
	var prev *pdf.Text
	for i := range items {
		t := &items[i]
		if prev != nil && t.S != "" && needsSpace(prev, t) {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		prev = t
	}
	return strings.TrimSpace(sb.String())
}

func needsSpace(prev, next *pdf.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	threshold := 0.15 * prev.FontSize
	if threshold <= 0 {
		threshold = 1
	}
	return next.X-(prev.X+prev.W) > threshold
}

// ExtractPlainText normalizes line endings and drops a UTF-8 BOM.
func ExtractPlainText(data []byte) (string, error) {
	s := string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyDocument
	}
	return s, nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}
