// Package report writes run reports to disk and summarizes them for display.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/statement-sorter/internal/fileutils"
	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Supported report formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Formats lists the supported report formats.
var Formats = []string{FormatJSON, FormatYAML, FormatCSV}

// Writer stores run reports under a directory.
type Writer struct {
	fs     afero.Fs
	dir    string
	logger logging.Logger
}

// NewWriter creates a Writer that stores reports in dir.
func NewWriter(fs afero.Fs, dir string, logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Writer{fs: fs, dir: dir, logger: logger}
}

// Write renders r in the given format and stores it. It returns the path of
// the written file.
func (w *Writer) Write(r *models.RunReport, format string) (string, error) {
	data, err := Generate(r, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, FileName(r, format))
	if err := fileutils.WriteFile(w.fs, path, data, models.PermissionReportFile); err != nil {
		w.logger.WithError(err).Error("Failed to write report",
			logging.Field{Key: logging.FieldOutputFile, Value: path})
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("Report written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: r.TotalFiles})
	return path, nil
}

// FileName returns "run_{YYYYMMDD_HHMMSS}_{short run id}.{format}".
func FileName(r *models.RunReport, format string) string {
	id := r.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("run_%s_%s.%s", r.StartedAt.Format("20060102_150405"), id, format)
}

// Generate renders r in the given format.
func Generate(r *models.RunReport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return generateJSON(r)
	case FormatYAML:
		return generateYAML(r)
	case FormatCSV:
		return generateCSV(r)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func generateJSON(r *models.RunReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func generateYAML(r *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

// outcomeRow is one CSV line per processed file.
type outcomeRow struct {
	File        string `csv:"file"`
	Status      string `csv:"status"`
	Action      string `csv:"action"`
	Destination string `csv:"destination"`
	Reason      string `csv:"reason"`
	Month       string `csv:"month"`
	Year        string `csv:"year"`
	DateMethod  string `csv:"date_method"`
	Account     string `csv:"account"`
	AcctMethod  string `csv:"account_method"`
	Bank        string `csv:"bank"`
	AccountType string `csv:"account_type"`
	Score       int    `csv:"score"`
	Category    string `csv:"category"`
}

func generateCSV(r *models.RunReport) ([]byte, error) {
	rows := make([]outcomeRow, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		row := outcomeRow{
			File:        o.File.OriginalPath,
			Status:      o.Status,
			Action:      o.ActionTaken,
			Destination: o.Structure,
			Reason:      o.ErrorReason,
			Month:       o.Date.Month,
			Year:        o.Date.Year,
			DateMethod:  o.Date.Method,
			Account:     o.Account.Value,
			AcctMethod:  o.Account.Method,
		}
		if c := o.Classification; c != nil {
			row.Bank = c.Bank
			row.AccountType = c.AccountType.Label()
			row.Score = c.ConfidenceScore
			row.Category = string(c.Category)
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))); err != nil {
		return nil, fmt.Errorf("error writing CSV data: %w", err)
	}
	return buf.Bytes(), nil
}

// Summary is the headline view of a run.
type Summary struct {
	Method      string
	State       string
	Total       int
	Success     int
	Errors      int
	SuccessRate decimal.Decimal // percent, one decimal place
	Duration    time.Duration
	Message     string
	TestMode    bool
}

// Summarize computes the headline figures of r.
func Summarize(r *models.RunReport) Summary {
	s := Summary{
		Method:      r.Method,
		State:       r.State,
		Total:       r.TotalFiles,
		Success:     r.SuccessCount,
		Errors:      r.ErrorCount,
		SuccessRate: decimal.Zero,
		Message:     r.Message,
		TestMode:    r.TestMode,
	}
	if r.TotalFiles > 0 {
		s.SuccessRate = decimal.NewFromInt(int64(r.SuccessCount * 100)).
			Div(decimal.NewFromInt(int64(r.TotalFiles))).
			Round(1)
	}
	if !r.FinishedAt.IsZero() {
		s.Duration = r.FinishedAt.Sub(r.StartedAt)
	}
	return s
}

// RateString formats the success rate as "NN.N%".
func (s Summary) RateString() string {
	return s.SuccessRate.StringFixed(1) + "%"
}
