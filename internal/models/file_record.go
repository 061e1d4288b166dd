// Package models defines the data types shared by the statement sorter components.
package models

import (
	"path/filepath"
	"strings"
)

// FileRecord is one candidate file found by the organizer. It is never mutated
// after enumeration; outputs are carried by separate records.
type FileRecord struct {
	OriginalPath string `json:"original_path" yaml:"original_path"`
	Name         string `json:"name" yaml:"name"`
	Extension    string `json:"extension" yaml:"extension"` // lower case, without the dot
}

// NewFileRecord builds a FileRecord from an absolute path.
func NewFileRecord(absPath string) FileRecord {
	name := filepath.Base(absPath)
	return FileRecord{
		OriginalPath: absPath,
		Name:         name,
		Extension:    strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
	}
}

// Dir returns the parent directory of the file.
func (f FileRecord) Dir() string {
	return filepath.Dir(f.OriginalPath)
}

// Suffix returns the lower-case extension with its leading dot.
func (f FileRecord) Suffix() string {
	if f.Extension == "" {
		return ""
	}
	return "." + f.Extension
}

// TypeTag returns the tag used in standardized filenames.
// Anything that is not a PDF is tagged as OFX.
func (f FileRecord) TypeTag() string {
	if f.Extension == "pdf" {
		return TypeTagPDF
	}
	return TypeTagOFX
}
