// Package renamer proposes descriptive names for generic documents using the
// external classifier and applies approved proposals in place.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"fjacquet/statement-sorter/internal/aiclient"
	"fjacquet/statement-sorter/internal/content"
	"fjacquet/statement-sorter/internal/logging"

	"github.com/spf13/afero"
)

// Plan and result statuses
const (
	StatusPreview = "PREVIEW"
	StatusOK      = "OK"
	StatusError   = "ERROR"
)

// FallbackLabel names a document the classifier could not describe.
const FallbackLabel = "documento"

// maxPartRunes bounds each sanitized name part.
const maxPartRunes = 80

// ErrNoFiles is returned by Preview when no file was selected.
var ErrNoFiles = errors.New("no files selected")

// Plan is a proposed rename for one file. Nothing is touched until Apply.
type Plan struct {
	Path           string `json:"path" yaml:"path"`
	Original       string `json:"original" yaml:"original"`
	Proposed       string `json:"proposed" yaml:"proposed"`
	Category       string `json:"category" yaml:"category"`
	ClassifierUsed bool   `json:"classifier_used" yaml:"classifier_used"`
	Status         string `json:"status" yaml:"status"`
}

// Result is the outcome of applying one Plan.
type Result struct {
	Original string `json:"original" yaml:"original"`
	Renamed  string `json:"renamed,omitempty" yaml:"renamed,omitempty"`
	Status   string `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// StepFunc is called before each file with its 1-based index.
type StepFunc func(index, total int, name string)

// Dependencies are the collaborators of a Renamer. Classifier may be nil, in
// which case every proposal uses the fallback name.
type Dependencies struct {
	Fs         afero.Fs
	Classifier aiclient.Classifier
	Content    content.Reader
	Logger     logging.Logger
	Now        func() time.Time
}

// Renamer previews and applies document renames.
type Renamer struct {
	deps         Dependencies
	excerptChars int
}

// New creates a Renamer reading excerpts of at most excerptChars characters.
func New(deps Dependencies, excerptChars int) *Renamer {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Logger == nil {
		deps.Logger = logging.GetLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Content == nil {
		deps.Content = content.NewDispatcher(deps.Fs, deps.Logger)
	}
	return &Renamer{deps: deps, excerptChars: excerptChars}
}

// Preview builds a Plan for every path. It reads file contents but never
// modifies the filesystem. A cancelled ctx stops between files and returns
// the plans built so far with the context error.
func (r *Renamer) Preview(ctx context.Context, paths []string, fn StepFunc) ([]Plan, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	plans := make([]Plan, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return plans, err
		}
		name := filepath.Base(path)
		if fn != nil {
			fn(i+1, len(paths), name)
		}
		plans = append(plans, r.plan(ctx, path))
	}
	return plans, nil
}

func (r *Renamer) plan(ctx context.Context, path string) Plan {
	name := filepath.Base(path)
	p := Plan{Path: path, Original: name, Status: StatusPreview, Category: aiclient.DefaultCategory}

	if r.deps.Classifier != nil {
		excerpt := r.deps.Content.Excerpt(path, r.excerptChars)
		s, err := r.deps.Classifier.SuggestName(ctx, name, excerpt)
		if err == nil {
			p.Proposed = ProposedName(s, filepath.Ext(name))
			p.Category = Sanitize(s.Category)
			p.ClassifierUsed = true
			return p
		}
		r.deps.Logger.WithError(err).Warn("No name suggestion, using fallback",
			logging.Field{Key: logging.FieldFile, Value: path})
	}

	p.Proposed = FallbackName(r.deps.Now(), name)
	return p
}

// Apply renames each previewed file inside its own folder. An existing target
// gets a "_{n}" suffix; no file is ever overwritten. Failures are recorded
// per file.
func (r *Renamer) Apply(ctx context.Context, plans []Plan, fn StepFunc) []Result {
	results := make([]Result, 0, len(plans))
	for i, p := range plans {
		if ctx.Err() != nil {
			break
		}
		if fn != nil {
			fn(i+1, len(plans), p.Original)
		}
		results = append(results, r.apply(p))
	}
	return results
}

func (r *Renamer) apply(p Plan) Result {
	res := Result{Original: p.Original}
	if p.Status != StatusPreview || p.Proposed == "" {
		res.Status = StatusError
		res.Error = "no proposed name"
		return res
	}

	target := filepath.Join(filepath.Dir(p.Path), p.Proposed)
	if target == filepath.Clean(p.Path) {
		res.Status = StatusOK
		res.Renamed = p.Proposed
		r.deps.Logger.Debug("File already has its proposed name",
			logging.Field{Key: logging.FieldFile, Value: p.Path})
		return res
	}

	target, err := r.freeTarget(target)
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		return res
	}
	if err := r.deps.Fs.Rename(p.Path, target); err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		r.deps.Logger.WithError(err).Warn("Rename failed",
			logging.Field{Key: logging.FieldFile, Value: p.Path})
		return res
	}

	res.Status = StatusOK
	res.Renamed = filepath.Base(target)
	r.deps.Logger.Info("File renamed",
		logging.Field{Key: logging.FieldFile, Value: p.Path},
		logging.Field{Key: logging.FieldDestination, Value: res.Renamed})
	return res
}

// freeTarget returns target or the first of stem_1, stem_2, ... that does not exist.
func (r *Renamer) freeTarget(target string) (string, error) {
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	candidate := target
	for n := 1; ; n++ {
		exists, err := afero.Exists(r.deps.Fs, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
}

// ProposedName formats a suggestion as "{date}_{category}_{name}{ext}", or
// "{category}_{name}{ext}" without a date.
func ProposedName(s aiclient.Suggestion, ext string) string {
	name := Sanitize(s.SuggestedName)
	if name == "" {
		name = aiclient.DefaultSuggestedName
	}
	category := Sanitize(s.Category)
	if category == "" {
		category = aiclient.DefaultCategory
	}

	parts := []string{category, name}
	if s.Date != "" {
		parts = append([]string{s.Date}, parts...)
	}
	return strings.Join(parts, "_") + strings.ToLower(ext)
}

// FallbackName is "{today}_documento_{original}".
func FallbackName(now time.Time, original string) string {
	return fmt.Sprintf("%s_%s_%s", now.Format("2006-01-02"), FallbackLabel, original)
}

var (
	unsafeRun     = regexp.MustCompile(`[^\p{L}\p{N}.-]+`)
	underscoreRun = regexp.MustCompile(`_{2,}`)
)

// Sanitize makes a model-provided name part safe for any filesystem: runs of
// anything but letters, digits, dots and hyphens become a single underscore.
func Sanitize(s string) string {
	s = unsafeRun.ReplaceAllString(strings.TrimSpace(s), "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._-")
	if utf8.RuneCountInString(s) > maxPartRunes {
		s = strings.TrimRight(string([]rune(s)[:maxPartRunes]), "._-")
	}
	return s
}
