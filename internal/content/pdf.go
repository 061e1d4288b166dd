package content

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"fjacquet/statement-sorter/internal/logging"

	"github.com/dslipak/pdf"
	"github.com/spf13/afero"
)

// TextExtractor pulls plain text out of a PDF document.
type TextExtractor interface {
	ExtractText(r io.ReaderAt, size int64) (string, error)
}

// PlainTextExtractor implements TextExtractor with github.com/dslipak/pdf.
type PlainTextExtractor struct{}

// ExtractText returns the document's plain text. The parser panics on some
// malformed inputs, so panics are turned into errors.
func (PlainTextExtractor) ExtractText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

// PDFReader reads excerpts from PDF files.
type PDFReader struct {
	fs        afero.Fs
	extractor TextExtractor
	logger    logging.Logger
}

// NewPDFReader returns a PDFReader backed by PlainTextExtractor.
func NewPDFReader(fs afero.Fs, logger logging.Logger) *PDFReader {
	return NewPDFReaderWithExtractor(fs, PlainTextExtractor{}, logger)
}

// NewPDFReaderWithExtractor returns a PDFReader using a custom extractor.
func NewPDFReaderWithExtractor(fs afero.Fs, extractor TextExtractor, logger logging.Logger) *PDFReader {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &PDFReader{fs: fs, extractor: extractor, logger: logger}
}

func (r *PDFReader) Excerpt(path string, maxChars int) string {
	f, err := r.fs.Open(path)
	if err != nil {
		r.logger.WithError(err).Debug("Cannot open PDF", logging.Field{Key: logging.FieldFile, Value: path})
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ""
	}

	text, err := r.extractor.ExtractText(f, info.Size())
	if err != nil {
		r.logger.WithError(err).Debug("PDF text extraction failed", logging.Field{Key: logging.FieldFile, Value: path})
		return ""
	}
	return truncate(strings.TrimSpace(text), maxChars)
}
