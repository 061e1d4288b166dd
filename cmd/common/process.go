// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/patterns"
	"fjacquet/statement-sorter/internal/progress"
	"fjacquet/statement-sorter/internal/renamer"
	"fjacquet/statement-sorter/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// NewProgressBar returns a bar writing to w. The bar prints a newline when it
// completes so following output starts on a fresh line.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

// RenderSummary draws the headline figures of a run in a bordered box.
func RenderSummary(s report.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Run summary"))
	b.WriteString("\n")

	mode := "copy"
	if s.TestMode {
		mode = "test (nothing copied)"
	}
	rows := [][2]string{
		{"Method", s.Method},
		{"Mode", mode},
		{"State", s.State},
		{"Files", fmt.Sprintf("%d", s.Total)},
		{"Organized", okStyle.Render(fmt.Sprintf("%d", s.Success))},
		{"Errors", errorCount(s.Errors)},
		{"Success rate", s.RateString()},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%-13s %s\n", row[0]+":", row[1])
	}
	if s.Message != "" {
		b.WriteString(mutedStyle.Render(s.Message))
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func errorCount(n int) string {
	if n == 0 {
		return fmt.Sprintf("%d", n)
	}
	return errStyle.Render(fmt.Sprintf("%d", n))
}

// WriteErrors lists the files that were not organized with their reasons.
func WriteErrors(w io.Writer, r *models.RunReport) error {
	if r.ErrorCount == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "%s\t%s\n", headerStyle.Render("File"), headerStyle.Render("Reason")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, o := range r.Outcomes {
		if o.IsSuccess() {
			continue
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", o.File.Name, o.ErrorReason); err != nil {
			return fmt.Errorf("failed to write error row: %w", err)
		}
	}
	return tw.Flush()
}

// WritePlans prints the proposed renames as a table.
func WritePlans(w io.Writer, plans []renamer.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n",
		headerStyle.Render("Original"),
		headerStyle.Render("Proposed"),
		headerStyle.Render("Category")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range plans {
		proposed := p.Proposed
		if p.Status == renamer.StatusError {
			proposed = errStyle.Render("(no proposal)")
		} else if !p.ClassifierUsed {
			proposed += " " + mutedStyle.Render("(fallback)")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Original, proposed, p.Category); err != nil {
			return fmt.Errorf("failed to write plan row: %w", err)
		}
	}
	return tw.Flush()
}

// WriteResults prints the outcome of applied renames.
func WriteResults(w io.Writer, results []renamer.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	ok := 0
	for _, r := range results {
		status := okStyle.Render(r.Status)
		detail := r.Renamed
		if r.Status != renamer.StatusOK {
			status = errStyle.Render(r.Status)
			detail = r.Error
		} else {
			ok++
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", status, r.Original, detail); err != nil {
			return fmt.Errorf("failed to write result row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d files renamed\n", ok, len(results))
	return err
}

// Analysis is the extraction and classification of one filename.
type Analysis struct {
	Filename string
	Context  string
	Date     models.DateResult
	Account  models.AccountResult
	Record   models.ClassificationRecord
}

// WriteAnalysis prints an Analysis as labelled lines.
func WriteAnalysis(w io.Writer, a Analysis) error {
	notFound := mutedStyle.Render("not found")
	date, account := notFound, notFound
	if a.Date.Found {
		date = fmt.Sprintf("%s %s (%s)", a.Date.YearMonth(), patterns.MonthName(a.Date.Month), a.Date.Method)
	}
	if a.Account.Found {
		account = fmt.Sprintf("%s (%s)", a.Account.Value, a.Account.Method)
	}
	bank := a.Record.Bank
	if bank == "" {
		bank = notFound
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.Filename))
	b.WriteString("\n")
	lines := [][2]string{
		{"Context", a.Context},
		{"Date", date},
		{"Account", account},
		{"Bank", bank},
		{"Account type", a.Record.AccountType.Label()},
		{"Score", fmt.Sprintf("%d (%s)", a.Record.ConfidenceScore, a.Record.Category)},
		{"Suggested", a.Record.SuggestedName},
	}
	for _, l := range lines {
		if l[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%-13s %s\n", l[0]+":", l[1])
	}
	_, err := fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	return err
}

// WriteProgressStats prints the counters of a progress log.
func WriteProgressStats(w io.Writer, path string, s progress.Stats) error {
	started := mutedStyle.Render("never")
	if s.StartedAt != nil {
		started = s.StartedAt.Format("2006-01-02 15:04:05")
	}
	updated := mutedStyle.Render("never")
	if s.UpdatedAt != nil {
		updated = s.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	body := fmt.Sprintf("%s\n%-11s %s\n%-11s %d\n%-11s %s\n%-11s %s\n%-11s %s",
		titleStyle.Render("Progress"),
		"Log:", path,
		"Processed:", s.Processed,
		"Errors:", errorCount(s.Errors),
		"Started:", started,
		"Updated:", updated)
	_, err := fmt.Fprintln(w, boxStyle.Render(body))
	return err
}
