// Package organizer runs a batch over a source directory: it enumerates
// statement files, extracts their date and account, and copies each one to a
// standardized destination path. Per-file problems are recorded in the run
// report; only directory-level and progress-store failures abort a run.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"fjacquet/statement-sorter/internal/aiclient"
	"fjacquet/statement-sorter/internal/content"
	"fjacquet/statement-sorter/internal/extractor"
	"fjacquet/statement-sorter/internal/fileutils"
	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/naming"
	"fjacquet/statement-sorter/internal/progress"
	"fjacquet/statement-sorter/internal/sorterror"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Classifier modes
const (
	AIModeFallback = "fallback"
	AIModePrimary  = "primary"
)

// Messages for runs with nothing to process
const (
	MessageAllProcessed = "all files already processed"
	MessageNoFiles      = "no files found"
)

// DefaultExtensions are the statement file types picked up by enumeration.
var DefaultExtensions = []string{"pdf", "ofx"}

// Dependencies are the collaborators of an Organizer. Classifier and Content
// may be nil; the remaining fields get defaults when left empty.
type Dependencies struct {
	Fs         afero.Fs
	Engine     *extractor.Engine
	Store      progress.Store
	Classifier aiclient.Classifier
	Content    content.Reader
	Logger     logging.Logger
	Now        func() time.Time
	NewRunID   func() string
}

// Options is the per-run configuration.
type Options struct {
	Source       string
	Destination  string
	Recursive    bool
	TestMode     bool
	Resume       bool
	RetryErrors  bool
	Advanced     bool
	Extensions   []string
	AIMode       string
	FallbackBank string
	ExcerptChars int
}

// ProgressEvent is emitted after each file.
type ProgressEvent struct {
	Index   int // 1-based
	Total   int
	Outcome models.ProcessingOutcome
}

// ProgressFunc receives a ProgressEvent after each file. It runs on the
// processing goroutine and should return quickly.
type ProgressFunc func(ProgressEvent)

// Organizer is the batch driver. An Organizer is meant for a single Run.
type Organizer struct {
	deps  Dependencies
	opts  Options
	namer *naming.Namer

	mu    sync.Mutex
	state string
}

// New creates an Organizer in the idle state.
func New(deps Dependencies, opts Options) *Organizer {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Engine == nil {
		deps.Engine = extractor.NewEngine(0)
	}
	if deps.Store == nil {
		deps.Store = progress.NewMemoryStore()
	}
	if deps.Logger == nil {
		deps.Logger = logging.GetLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewRunID == nil {
		deps.NewRunID = uuid.NewString
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.AIMode == "" {
		opts.AIMode = AIModeFallback
	}

	return &Organizer{
		deps:  deps,
		opts:  opts,
		state: models.StateIdle,
	}
}

// State returns the current state of the run.
func (o *Organizer) State() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Organizer) setState(state string) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

// Method returns the label recorded in the run report.
func (o *Organizer) Method() string {
	switch {
	case o.deps.Classifier != nil:
		return models.MethodAI
	case o.opts.Advanced:
		return models.MethodAdvanced
	default:
		return models.MethodLocal
	}
}

// Run processes every pending file under the source directory. Cancelling
// ctx stops the run between files; the returned report then covers the files
// processed so far and has Cancelled set.
func (o *Organizer) Run(ctx context.Context, fn ProgressFunc) (*models.RunReport, error) {
	logger := o.deps.Logger
	runID := o.deps.NewRunID()
	logger = logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldMethod, Value: o.Method()})

	if err := o.validate(); err != nil {
		logger.WithError(err).Error("Invalid directories")
		return nil, err
	}

	log, err := o.loadLog()
	if err != nil {
		logger.WithError(err).Error("Failed to load progress log")
		return nil, err
	}

	report := models.NewRunReport(runID, o.Method(), o.opts.Source, o.opts.Destination, o.opts.TestMode, o.deps.Now())

	o.setState(models.StateEnumerating)
	files, err := o.enumerate()
	if err != nil {
		o.setState(models.StateIdle)
		return nil, err
	}
	found := len(files)
	files = o.pending(files, log)

	logger.Info("Enumerated files",
		logging.Field{Key: logging.FieldCount, Value: found},
		logging.Field{Key: "pending", Value: len(files)})

	if len(files) == 0 {
		report.NothingToDo = true
		report.Message = MessageNoFiles
		if found > 0 {
			report.Message = MessageAllProcessed
		}
		o.setState(models.StateCompleted)
		report.Finish(models.StateCompleted, o.deps.Now())
		logger.Info(report.Message)
		return report, nil
	}

	o.setState(models.StateProcessing)
	log.Start(o.deps.Now())

	for i, path := range files {
		if ctx.Err() != nil {
			logger.Warn("Run cancelled",
				logging.Field{Key: logging.FieldCount, Value: report.TotalFiles})
			o.setState(models.StateCancelled)
			report.Finish(models.StateCancelled, o.deps.Now())
			return report, nil
		}

		outcome := o.processFile(ctx, models.NewFileRecord(path))
		o.recordProgress(log, outcome)
		report.Record(outcome)
		o.logOutcome(logger, outcome)

		if fn != nil {
			fn(ProgressEvent{Index: i + 1, Total: len(files), Outcome: outcome})
		}
	}

	o.setState(models.StateCompleted)
	report.Finish(models.StateCompleted, o.deps.Now())
	logger.Info("Run completed",
		logging.Field{Key: logging.FieldCount, Value: report.TotalFiles},
		logging.Field{Key: "success", Value: report.SuccessCount},
		logging.Field{Key: "errors", Value: report.ErrorCount})
	return report, nil
}

// validate checks the source and destination directories before any file is
// touched. Both paths are made absolute so progress keys and the overlap
// checks do not depend on the working directory.
func (o *Organizer) validate() error {
	if o.opts.Source == "" {
		return &sorterror.ConfigError{Key: "organize.source_dir", Reason: "source directory is required"}
	}
	if o.opts.Destination == "" {
		return &sorterror.ConfigError{Key: "organize.destination_dir", Reason: "destination directory is required"}
	}
	src, err := filepath.Abs(o.opts.Source)
	if err != nil {
		return &sorterror.ConfigError{Key: "organize.source_dir", Reason: err.Error()}
	}
	dst, err := filepath.Abs(o.opts.Destination)
	if err != nil {
		return &sorterror.ConfigError{Key: "organize.destination_dir", Reason: err.Error()}
	}
	o.opts.Source, o.opts.Destination = src, dst

	info, err := o.deps.Fs.Stat(src)
	if err != nil {
		return &sorterror.DirectoryError{Role: "source", Path: src, Err: sorterror.ErrDirectoryMissing}
	}
	if !info.IsDir() {
		return &sorterror.DirectoryError{Role: "source", Path: src, Err: sorterror.ErrNotDirectory}
	}
	if !o.readable(src) {
		return &sorterror.DirectoryError{Role: "source", Path: src, Err: sorterror.ErrDirectoryReadonly}
	}
	if src == dst {
		return &sorterror.DirectoryError{Role: "destination", Path: dst, Err: sorterror.ErrSameDirectory}
	}
	if info, err := o.deps.Fs.Stat(dst); err == nil && !info.IsDir() {
		return &sorterror.DirectoryError{Role: "destination", Path: dst, Err: sorterror.ErrNotDirectory}
	}

	o.namer = naming.NewNamer(o.deps.Fs, dst)
	return nil
}

// readable reports whether the entries of dir can be listed.
func (o *Organizer) readable(dir string) bool {
	f, err := o.deps.Fs.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	return err == nil || errors.Is(err, io.EOF)
}

// loadLog returns the progress log for this run. Without resume the stored
// log is discarded, except in test mode where nothing is persisted.
func (o *Organizer) loadLog() (*progress.Log, error) {
	if !o.opts.Resume {
		if !o.opts.TestMode {
			if err := o.deps.Store.Clear(); err != nil {
				return nil, fmt.Errorf("failed to clear progress log: %w", err)
			}
		}
		return progress.NewLog(), nil
	}
	log, err := o.deps.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load progress log: %w", err)
	}
	return log, nil
}

func (o *Organizer) enumerate() ([]string, error) {
	opts := fileutils.ListOptions{
		Recursive:  o.opts.Recursive,
		Extensions: o.opts.Extensions,
	}
	if fileutils.IsWithin(o.opts.Destination, o.opts.Source) {
		opts.SkipDir = o.opts.Destination
	}
	files, err := fileutils.ListFiles(o.deps.Fs, o.opts.Source, opts)
	if err != nil {
		return nil, &sorterror.DirectoryError{Role: "source", Path: o.opts.Source, Err: err}
	}
	return files, nil
}

func (o *Organizer) pending(files []string, log *progress.Log) []string {
	if !o.opts.Resume {
		return files
	}
	kept := files[:0]
	for _, f := range files {
		if !log.IsHandled(f, o.opts.RetryErrors) {
			kept = append(kept, f)
		}
	}
	return kept
}

// recordProgress appends the outcome to the log and persists it. A failed
// save is logged and does not stop the run.
func (o *Organizer) recordProgress(log *progress.Log, outcome models.ProcessingOutcome) {
	if o.opts.TestMode {
		return
	}
	now := o.deps.Now()
	if outcome.IsSuccess() {
		log.AddSuccess(outcome.File.OriginalPath, outcome.DestinationPath, now)
	} else {
		log.AddError(outcome.File.OriginalPath, outcome.ErrorReason, now)
	}
	if err := o.deps.Store.Save(log); err != nil {
		o.deps.Logger.WithError(err).Warn("Failed to save progress log",
			logging.Field{Key: logging.FieldFile, Value: outcome.File.OriginalPath})
	}
}

func (o *Organizer) logOutcome(logger logging.Logger, outcome models.ProcessingOutcome) {
	fields := []logging.Field{
		{Key: logging.FieldFile, Value: outcome.File.OriginalPath},
		{Key: logging.FieldStatus, Value: outcome.Status},
	}
	if outcome.IsSuccess() {
		fields = append(fields,
			logging.Field{Key: logging.FieldDestination, Value: outcome.Structure},
			logging.Field{Key: logging.FieldAccount, Value: outcome.Account.Value},
			logging.Field{Key: logging.FieldDate, Value: outcome.Date.YearMonth()})
		logger.Info("File organized", fields...)
		return
	}
	fields = append(fields, logging.Field{Key: logging.FieldReason, Value: outcome.ErrorReason})
	logger.Warn("File not organized", fields...)
}
