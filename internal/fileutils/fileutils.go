// Package fileutils provides the filesystem operations shared by the organizer,
// the renamer and the report writer. Every function takes an afero.Fs so the
// same code runs against the OS or an in-memory filesystem.
package fileutils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/sorterror"

	"github.com/spf13/afero"
)

// DirectoryExists checks if a directory exists
func DirectoryExists(afs afero.Fs, dirPath string) bool {
	ok, err := afero.DirExists(afs, dirPath)
	return err == nil && ok
}

// EnsureDirectoryExists creates a directory and its parents. An existing
// directory is not an error.
func EnsureDirectoryExists(afs afero.Fs, dirPath string) error {
	if err := afs.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
		if DirectoryExists(afs, dirPath) {
			return nil
		}
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// WriteFile writes data to a file, creating any parent directories if needed
func WriteFile(afs afero.Fs, filePath string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectoryExists(afs, filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := afero.WriteFile(afs, filePath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ErrModTimeNotKept is returned by CopyVerified when the copy is complete but
// the source modification time could not be applied to it.
var ErrModTimeNotKept = errors.New("copied but failed to keep modification time")

// CopyVerified copies src to dst, which must not exist yet. After the copy the
// sizes of both files are compared; on any failure the destination is removed
// so no partial file is left behind. The source modification time is kept.
func CopyVerified(afs afero.Fs, src, dst string) (int64, error) {
	srcInfo, err := afs.Stat(src)
	if err != nil {
		return 0, &sorterror.CopyError{Source: src, Destination: dst, Err: err}
	}
	if err := EnsureDirectoryExists(afs, filepath.Dir(dst)); err != nil {
		return 0, &sorterror.CopyError{Source: src, Destination: dst, Err: err}
	}

	in, err := afs.Open(src)
	if err != nil {
		return 0, &sorterror.CopyError{Source: src, Destination: dst, Err: err}
	}
	defer in.Close()

	out, err := afs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return 0, &sorterror.CopyError{Source: src, Destination: dst, Err: err}
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = afs.Remove(dst)
		return 0, &sorterror.CopyError{Source: src, Destination: dst, Err: err}
	}

	dstInfo, err := afs.Stat(dst)
	if err != nil {
		_ = afs.Remove(dst)
		return 0, &sorterror.CopyError{Source: src, Destination: dst, Err: err}
	}
	if dstInfo.Size() != srcInfo.Size() {
		_ = afs.Remove(dst)
		return 0, &sorterror.IntegrityError{
			Destination:     dst,
			SourceSize:      srcInfo.Size(),
			DestinationSize: dstInfo.Size(),
		}
	}

	if err := afs.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return dstInfo.Size(), fmt.Errorf("%w: %v", ErrModTimeNotKept, err)
	}
	return dstInfo.Size(), nil
}

// ListOptions selects the files returned by ListFiles.
type ListOptions struct {
	Recursive  bool
	Extensions []string // lower case, without the dot
	SkipDir    string   // absolute directory whose subtree is ignored
}

// ListFiles returns the files under root whose extension matches one of
// opts.Extensions, case-insensitively, in lexical order and without duplicates.
func ListFiles(afs afero.Fs, root string, opts ListOptions) ([]string, error) {
	if !DirectoryExists(afs, root) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}

	wanted := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		wanted[strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}
	skip := filepath.Clean(opts.SkipDir)

	seen := make(map[string]bool)
	var files []string
	err := afero.Walk(afs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path == root {
				return nil
			}
			if !opts.Recursive || (opts.SkipDir != "" && filepath.Clean(path) == skip) {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if !wanted[ext] || seen[path] {
			return nil
		}
		seen[path] = true
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// IsWithin reports whether path equals dir or lies inside it.
func IsWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
