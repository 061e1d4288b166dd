// Package rename implements the rename command for generic documents.
package rename

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fjacquet/statement-sorter/cmd/common"
	"fjacquet/statement-sorter/cmd/root"
	"fjacquet/statement-sorter/internal/container"
	"fjacquet/statement-sorter/internal/fileutils"
	"fjacquet/statement-sorter/internal/renamer"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	apply     bool
	recursive bool
)

// Cmd represents the rename command
var Cmd = &cobra.Command{
	Use:   "rename <file or directory>...",
	Short: "Propose descriptive names for PDF documents and optionally apply them",
	Long: `Read the start of each PDF document, ask the external classifier for a name,
a category and a date, and propose "{date}_{category}_{name}.pdf".
Files the classifier cannot read get "{today}_documento_{original}".

Only a preview is printed unless --apply is given. Files are renamed in place
and an existing file is never overwritten.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().BoolVar(&apply, "apply", false, "Rename the files after the preview")
	Cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include subdirectories of directory arguments")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to release resources")
		}
	}()
	if c.GetClassifier() == nil {
		root.Log.Warn("External classifier disabled, every file gets a fallback name (enable with --ai)")
	}

	return Execute(ctx, c, args, apply, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// Execute previews the renames of the PDF files named by args and applies
// them when doApply is set. Tables go to out and progress bars to progressOut.
func Execute(ctx context.Context, c *container.Container, args []string, doApply bool, out, progressOut io.Writer) error {
	paths, err := CollectFiles(c.GetFs(), args, recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return renamer.ErrNoFiles
	}

	r := c.NewRenamer()
	bar := common.NewProgressBar(progressOut, len(paths), "Reading documents...")
	plans, err := r.Preview(ctx, paths, func(int, int, string) { _ = bar.Add(1) })
	if err != nil {
		return err
	}
	if err := common.WritePlans(out, plans); err != nil {
		return err
	}
	if !doApply {
		_, err := fmt.Fprintln(out, "Preview only, run again with --apply to rename.")
		return err
	}

	bar = common.NewProgressBar(progressOut, len(plans), "Renaming...")
	results := r.Apply(ctx, plans, func(int, int, string) { _ = bar.Add(1) })
	return common.WriteResults(out, results)
}

// CollectFiles expands directory arguments into the PDF files they contain.
// File arguments are kept whatever their extension.
func CollectFiles(fs afero.Fs, args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}
		info, err := fs.Stat(abs)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("file not found: %s", arg)
			}
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, abs)
			continue
		}
		files, err := fileutils.ListFiles(fs, abs, fileutils.ListOptions{
			Recursive:  recursive,
			Extensions: []string{"pdf"},
		})
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}
