// Package content reads a bounded text excerpt from statement files for the
// external classifier. Readers never fail: any problem yields an empty excerpt.
package content

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fjacquet/statement-sorter/internal/logging"

	"github.com/spf13/afero"
)

// DefaultMaxChars bounds an excerpt when the caller passes zero.
const DefaultMaxChars = 2000

// Reader returns up to maxChars characters of text from the file at path.
type Reader interface {
	Excerpt(path string, maxChars int) string
}

// Dispatcher picks a Reader by file extension.
type Dispatcher struct {
	readers map[string]Reader
}

// NewDispatcher returns a Dispatcher with the PDF and OFX readers registered.
func NewDispatcher(fs afero.Fs, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		readers: map[string]Reader{
			"pdf": NewPDFReader(fs, logger),
			"ofx": NewOFXReader(fs, logger),
		},
	}
}

// Register installs r for the extension ext (lower case, without the dot).
func (d *Dispatcher) Register(ext string, r Reader) {
	d.readers[strings.ToLower(strings.TrimPrefix(ext, "."))] = r
}

// Excerpt delegates to the reader registered for the file's extension.
// Unknown extensions yield "".
func (d *Dispatcher) Excerpt(path string, maxChars int) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	r, ok := d.readers[ext]
	if !ok {
		return ""
	}
	return r.Excerpt(path, maxChars)
}

// truncate cuts s to at most maxChars runes.
func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars])
}
