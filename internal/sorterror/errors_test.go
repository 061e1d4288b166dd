package sorterror

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectoryError(t *testing.T) {
	err := &DirectoryError{Role: "source", Path: "/missing", Err: ErrDirectoryMissing}

	assert.Equal(t, "invalid source directory '/missing': directory does not exist", err.Error())
	assert.True(t, errors.Is(err, ErrDirectoryMissing))

	wrapped := fmt.Errorf("organize: %w", err)
	var dirErr *DirectoryError
	assert.True(t, errors.As(wrapped, &dirErr))
	assert.Equal(t, "source", dirErr.Role)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Key: "ai.delay_seconds", Reason: "must be at least 0.1"}
	assert.Equal(t, "invalid configuration ai.delay_seconds: must be at least 0.1", err.Error())
}

func TestExtractionError(t *testing.T) {
	err := &ExtractionError{FilePath: "/src/a.pdf", Field: "date", Reason: "date not identified"}
	assert.Equal(t, "date not identified", err.Error())
}

func TestCopyError_Unwrap(t *testing.T) {
	err := &CopyError{Source: "/src/a.pdf", Destination: "/dst/a.pdf", Err: io.ErrShortWrite}
	assert.Contains(t, err.Error(), "/src/a.pdf -> /dst/a.pdf")
	assert.True(t, errors.Is(err, io.ErrShortWrite))
}

func TestIntegrityError(t *testing.T) {
	err := &IntegrityError{Destination: "/dst/a.pdf", SourceSize: 10, DestinationSize: 4}
	assert.Equal(t, "size mismatch after copy to /dst/a.pdf: source 10 bytes, destination 4 bytes", err.Error())
}

func TestClassifierError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := &ClassifierError{Provider: "gemini", Err: cause}
	assert.Equal(t, "gemini classifier failed: deadline exceeded", err.Error())
	assert.True(t, errors.Is(err, cause))
}
