// Package organize implements the organize command.
package organize

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/statement-sorter/cmd/common"
	"fjacquet/statement-sorter/cmd/root"
	"fjacquet/statement-sorter/internal/container"
	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/organizer"
	"fjacquet/statement-sorter/internal/report"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var noReport bool

// Cmd represents the organize command
var Cmd = &cobra.Command{
	Use:   "organize",
	Short: "Copy statement files into a standardized folder structure",
	Long: `Scan a source directory for bank statements (PDF and OFX), find the month,
year and account number in each file name and copy the file to
DESTINATION/CONTA_{account}/{YYYY}_{MM}_{MONTH}/{YYYY}-{MM}_{account}_{TYPE}.{ext}.

Runs in test mode by default: nothing is copied until --test-mode=false is given.
Interrupting a run stops it after the current file; use --resume to continue.`,
	RunE: run,
}

func init() {
	flags := Cmd.Flags()
	flags.StringP("source", "s", "", "Directory holding the statement files")
	flags.StringP("dest", "d", "", "Directory receiving the organized copies")
	flags.Bool("recursive", true, "Include subdirectories of the source")
	flags.Bool("test-mode", true, "Simulate the run without copying anything")
	flags.Bool("resume", false, "Skip files already handled by a previous run")
	flags.Bool("retry-errors", false, "With --resume, process files that failed before")
	flags.Bool("advanced", false, "Use the bank and account type folder layout")
	flags.StringSlice("extensions", nil, "File extensions to include (default pdf,ofx)")
	flags.String("report-format", "", "Run report format (json, yaml or csv)")
	flags.String("report-dir", "", "Directory receiving run reports")
	flags.BoolVar(&noReport, "no-report", false, "Do not write a run report")

	root.BindFlag(Cmd, "organize.source_dir", "source")
	root.BindFlag(Cmd, "organize.destination_dir", "dest")
	root.BindFlag(Cmd, "organize.recursive", "recursive")
	root.BindFlag(Cmd, "organize.test_mode", "test-mode")
	root.BindFlag(Cmd, "organize.resume", "resume")
	root.BindFlag(Cmd, "organize.retry_errors", "retry-errors")
	root.BindFlag(Cmd, "organize.advanced", "advanced")
	root.BindFlag(Cmd, "organize.extensions", "extensions")
	root.BindFlag(Cmd, "report.format", "report-format")
	root.BindFlag(Cmd, "report.directory", "report-dir")
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

	r, err := Execute(ctx, c, c.OrganizeOptions(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return Present(cmd.OutOrStdout(), c, r, !noReport)
}

// Execute runs the organizer with a progress bar drawn on w.
func Execute(ctx context.Context, c *container.Container, opts organizer.Options, w io.Writer) (*models.RunReport, error) {
	var bar *progressbar.ProgressBar
	r, err := c.NewOrganizer(opts).Run(ctx, func(ev organizer.ProgressEvent) {
		if bar == nil {
			bar = common.NewProgressBar(w, ev.Total, "Organizing statements...")
		}
		if err := bar.Add(1); err != nil {
			c.GetLogger().WithError(err).Debug("Failed to update progress bar")
		}
	})
	if err != nil {
		return nil, err
	}
	if bar != nil && r.Cancelled {
		_, _ = fmt.Fprintln(w)
	}
	return r, nil
}

// Present prints the summary and the failed files, and writes the run report
// when writeReport is set.
func Present(w io.Writer, c *container.Container, r *models.RunReport, writeReport bool) error {
	if _, err := fmt.Fprintln(w, common.RenderSummary(report.Summarize(r))); err != nil {
		return err
	}
	if err := common.WriteErrors(w, r); err != nil {
		return err
	}
	if !writeReport || r.NothingToDo {
		return nil
	}
	path, err := c.GetReportWriter().Write(r, c.GetConfig().Report.Format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Report written to %s\n", path)
	return err
}
