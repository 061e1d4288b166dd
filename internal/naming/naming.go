// Package naming composes destination paths for organized statements and
// resolves collisions without ever reusing an existing path.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/patterns"

	"github.com/spf13/afero"
)

// Namer builds destination paths under a root directory. Paths handed out by
// Resolve are reserved for the lifetime of the Namer, so a simulated run that
// never writes still gets distinct paths for identical inputs.
type Namer struct {
	fs       afero.Fs
	root     string
	mu       sync.Mutex
	reserved map[string]struct{}
}

// NewNamer creates a Namer rooted at root.
func NewNamer(fs afero.Fs, root string) *Namer {
	return &Namer{
		fs:       fs,
		root:     root,
		reserved: make(map[string]struct{}),
	}
}

// StandardName returns "{year}-{month}_{account}_{TYPE}{ext}".
func StandardName(date models.DateResult, account models.AccountResult, file models.FileRecord) string {
	return fmt.Sprintf("%s-%s_%s_%s%s", date.Year, date.Month, account.Value, file.TypeTag(), file.Suffix())
}

// AccountFolder returns "CONTA_{account}", prefixed with "{bank}_" when a bank is known.
func AccountFolder(account, bank string) string {
	folder := "CONTA_" + account
	if bank != "" {
		folder = bank + "_" + folder
	}
	return folder
}

// DateFolder returns "{year}_{month}_{MONTH_NAME}".
func DateFolder(date models.DateResult) string {
	return fmt.Sprintf("%s_%s_%s", date.Year, date.Month, patterns.MonthName(date.Month))
}

// Standard returns the canonical destination path before collision handling:
// root/CONTA_{account}/{year}_{month}_{MONTH}/{standard name}.
func (n *Namer) Standard(date models.DateResult, account models.AccountResult, file models.FileRecord) string {
	return filepath.Join(n.root, AccountFolder(account.Value, ""), DateFolder(date), StandardName(date, account, file))
}

// Advanced returns the advanced-layout destination path: the account folder
// carries the bank prefix, a detected account type adds a subfolder and the
// file takes the classifier's suggested name.
func (n *Namer) Advanced(date models.DateResult, account models.AccountResult, file models.FileRecord, rec models.ClassificationRecord) string {
	elems := []string{n.root, AccountFolder(account.Value, rec.Bank), DateFolder(date)}
	if rec.HasAccountType() {
		elems = append(elems, rec.AccountType.Label())
	}
	name := rec.SuggestedName
	if name == "" {
		name = StandardName(date, account, file)
	}
	return filepath.Join(append(elems, name)...)
}

// Resolve returns the first path among p, p_v01, p_v02, ... that neither
// exists on the filesystem nor was returned by an earlier call, and reserves it.
func (n *Namer) Resolve(p string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ext := filepath.Ext(p)
	stem := strings.TrimSuffix(p, ext)

	candidate := p
	for counter := 1; ; counter++ {
		taken, err := n.taken(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			n.reserved[candidate] = struct{}{}
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_v%02d%s", stem, counter, ext)
	}
}

// Release drops a reservation, for a path whose copy failed and was removed.
func (n *Namer) Release(p string) {
	n.mu.Lock()
	delete(n.reserved, p)
	n.mu.Unlock()
}

func (n *Namer) taken(p string) (bool, error) {
	if _, ok := n.reserved[p]; ok {
		return true, nil
	}
	exists, err := afero.Exists(n.fs, p)
	if err != nil {
		return false, fmt.Errorf("failed to check destination %s: %w", p, err)
	}
	return exists, nil
}

// Structure returns p relative to the destination root, or p itself when it
// lies outside the root.
func (n *Namer) Structure(p string) string {
	rel, err := filepath.Rel(n.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
