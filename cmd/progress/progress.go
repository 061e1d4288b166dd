// Package progress implements the progress command, which shows or clears
// the resume log of a source directory.
package progress

import (
	"fmt"
	"io"

	"fjacquet/statement-sorter/cmd/common"
	"fjacquet/statement-sorter/cmd/root"
	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/progress"
	"fjacquet/statement-sorter/internal/sorterror"

	"github.com/spf13/cobra"
)

var clearLog bool

// Cmd represents the progress command
var Cmd = &cobra.Command{
	Use:   "progress [source directory]",
	Short: "Show or clear the resume log of a source directory",
	Long: `Print how many files of a source directory were organized or failed in
previous runs, as recorded in its progress log. With --clear the log is removed
so the next --resume run starts over.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if root.AppConfig != nil {
			source = root.AppConfig.Organize.SourceDir
		}
		if len(args) == 1 {
			source = args[0]
		}
		if source == "" {
			return &sorterror.ConfigError{Key: "organize.source_dir", Reason: "source directory is required"}
		}

		c, err := root.NewContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		return Execute(cmd.OutOrStdout(), c.ProgressStore(source), clearLog, c.GetLogger())
	},
}

func init() {
	Cmd.Flags().BoolVar(&clearLog, "clear", false, "Remove the progress log")
}

// Execute prints the statistics of store, then clears it when clear is set.
func Execute(w io.Writer, store *progress.FileStore, clear bool, logger logging.Logger) error {
	log, err := store.Load()
	if err != nil {
		return err
	}
	if err := common.WriteProgressStats(w, store.Path(), log.Stats()); err != nil {
		return err
	}
	if !clear {
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	logger.Info("Progress log cleared", logging.Field{Key: logging.FieldFile, Value: store.Path()})
	_, err = fmt.Fprintln(w, "Progress log cleared.")
	return err
}
