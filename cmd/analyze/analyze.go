// Package analyze implements the analyze command, which shows how a single
// file name is read without touching any file.
package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/statement-sorter/cmd/common"
	"fjacquet/statement-sorter/cmd/root"
	"fjacquet/statement-sorter/internal/classifier"
	"fjacquet/statement-sorter/internal/extractor"

	"github.com/spf13/cobra"
)

var (
	parentContext string
	asJSON        bool
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze <filename>",
	Short: "Show the date, account and classification found in a file name",
	Long: `Run the date and account extractors and the classifier on one file name and
print what was found, including the name of the rule that matched.
The --context flag supplies a parent folder path used to complete the date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cacheSize := 0
		if root.AppConfig != nil {
			cacheSize = root.AppConfig.Extraction.CacheSize
		}
		a := Analyze(extractor.NewEngine(cacheSize), args[0], parentContext)
		return Write(cmd.OutOrStdout(), a, asJSON)
	},
}

func init() {
	Cmd.Flags().StringVar(&parentContext, "context", "", "Parent folder path of the file")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
}

// Analyze extracts and classifies a file name. Only the base name is used.
func Analyze(engine *extractor.Engine, filename, context string) common.Analysis {
	name := filepath.Base(filename)
	date := engine.ExtractDate(name, context)
	account := engine.ExtractAccount(name)
	return common.Analysis{
		Filename: name,
		Context:  context,
		Date:     date,
		Account:  account,
		Record:   classifier.Classify(name, date, account),
	}
}

// Write prints a as a box, or as indented JSON when asJSON is set.
func Write(w io.Writer, a common.Analysis, asJSON bool) error {
	if !asJSON {
		return common.WriteAnalysis(w, a)
	}
	data, err := json.MarshalIndent(map[string]interface{}{
		"filename":       a.Filename,
		"context":        a.Context,
		"date":           a.Date,
		"account":        a.Account,
		"classification": a.Record,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
