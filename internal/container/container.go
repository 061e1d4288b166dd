// Package container provides dependency injection for the statement-sorter
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"fjacquet/statement-sorter/internal/aiclient"
	"fjacquet/statement-sorter/internal/config"
	"fjacquet/statement-sorter/internal/content"
	"fjacquet/statement-sorter/internal/extractor"
	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/organizer"
	"fjacquet/statement-sorter/internal/progress"
	"fjacquet/statement-sorter/internal/renamer"
	"fjacquet/statement-sorter/internal/report"

	"github.com/spf13/afero"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	fs         afero.Fs
	engine     *extractor.Engine
	content    *content.Dispatcher
	classifier *aiclient.Throttled
	reports    *report.Writer
	now        func() time.Time
}

// Option customizes a Container before its dependencies are built.
type Option func(*Container)

// WithFs replaces the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(c *Container) { c.fs = fs }
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	var engineOpts []extractor.Option
	if cfg.Extraction.DefaultMissingDate {
		engineOpts = append(engineOpts, extractor.WithDefaultMissingDate(c.now))
	}
	c.engine = extractor.NewEngine(cfg.Extraction.CacheSize, engineOpts...)
	c.content = content.NewDispatcher(c.fs, c.logger)
	c.reports = report.NewWriter(c.fs, cfg.Report.Directory, c.logger)

	if cfg.AI.Enabled {
		clf, err := aiclient.New(ctx, aiclient.Settings{
			Provider:     cfg.AI.Provider,
			Model:        cfg.AI.Model,
			APIKey:       cfg.AI.APIKey,
			BaseURL:      cfg.AI.BaseURL,
			Timeout:      cfg.AI.Timeout(),
			Delay:        cfg.AI.Delay(),
			ExcerptChars: cfg.AI.ExcerptChars,
		}, c.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create classifier: %w", err)
		}
		c.classifier = clf
		c.logger.Info("External classifier enabled",
			logging.Field{Key: "provider", Value: clf.Provider()},
			logging.Field{Key: "mode", Value: cfg.AI.Mode})
	} else {
		c.logger.Debug("External classifier disabled")
	}

	c.logger.Debug("Container initialized",
		logging.Field{Key: "ai_enabled", Value: cfg.AI.Enabled},
		logging.Field{Key: "cache_size", Value: cfg.Extraction.CacheSize})

	return c, nil
}

// OrganizeOptions returns the run options described by the configuration.
func (c *Container) OrganizeOptions() organizer.Options {
	o := c.config.Organize
	return organizer.Options{
		Source:       o.SourceDir,
		Destination:  o.DestinationDir,
		Recursive:    o.Recursive,
		TestMode:     o.TestMode,
		Resume:       o.Resume,
		RetryErrors:  o.RetryErrors,
		Advanced:     o.Advanced,
		Extensions:   o.Extensions,
		AIMode:       c.config.AI.Mode,
		FallbackBank: c.config.AI.FallbackBank,
		ExcerptChars: c.config.AI.ExcerptChars,
	}
}

// NewOrganizer returns an Organizer for opts, with its progress log stored
// in the source directory.
func (c *Container) NewOrganizer(opts organizer.Options) *organizer.Organizer {
	deps := organizer.Dependencies{
		Fs:      c.fs,
		Engine:  c.engine,
		Store:   progress.NewFileStore(c.fs, opts.Source, c.config.Progress.FileName),
		Content: c.content,
		Logger:  c.logger,
		Now:     c.now,
	}
	if c.classifier != nil {
		deps.Classifier = c.classifier
	}
	return organizer.New(deps, opts)
}

// NewRenamer returns a Renamer using the configured classifier, if any.
func (c *Container) NewRenamer() *renamer.Renamer {
	deps := renamer.Dependencies{
		Fs:      c.fs,
		Content: c.content,
		Logger:  c.logger,
		Now:     c.now,
	}
	if c.classifier != nil {
		deps.Classifier = c.classifier
	}
	return renamer.New(deps, c.config.AI.ExcerptChars)
}

// ProgressStore returns the progress log store of a source directory.
func (c *Container) ProgressStore(source string) *progress.FileStore {
	return progress.NewFileStore(c.fs, source, c.config.Progress.FileName)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetFs returns the filesystem every component works on.
func (c *Container) GetFs() afero.Fs {
	return c.fs
}

// GetEngine returns the shared extraction engine.
func (c *Container) GetEngine() *extractor.Engine {
	return c.engine
}

// GetContent returns the excerpt reader.
func (c *Container) GetContent() content.Reader {
	return c.content
}

// GetClassifier returns the external classifier.
// Returns nil if AI is not enabled.
func (c *Container) GetClassifier() aiclient.Classifier {
	if c.classifier == nil {
		return nil
	}
	return c.classifier
}

// GetReportWriter returns the run report writer.
func (c *Container) GetReportWriter() *report.Writer {
	return c.reports
}

// Close releases the classifier's provider connection.
func (c *Container) Close() error {
	if c.classifier != nil {
		if err := c.classifier.Close(); err != nil {
			return fmt.Errorf("failed to close classifier: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
