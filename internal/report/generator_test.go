package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fjacquet/statement-sorter/internal/classifier"
	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/models"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var started = time.Date(2025, time.June, 10, 9, 15, 0, 0, time.UTC)

func sampleReport() *models.RunReport {
	r := models.NewRunReport("0f8c2a1e-7b7d-4c4e-9d55-3f1b2a9c0e11", models.MethodAdvanced, "/src", "/dst", false, started)

	date := models.NewDateResult("04", "2024", "MES_NOME_COMPLETO/ANO_4DIGITOS")
	account := models.NewAccountResult("40495", "EXT_SIMPLES")
	name := "EXT 4049-5 abril 2024 itau.pdf"
	rec := classifier.Classify(name, date, account)
	r.Record(models.ProcessingOutcome{
		File:            models.NewFileRecord("/src/" + name),
		Status:          models.StatusSuccess,
		ActionTaken:     models.ActionCopied,
		DestinationPath: "/dst/ITAU_CONTA_40495/2024_04_ABRIL/" + rec.SuggestedName,
		Structure:       "ITAU_CONTA_40495/2024_04_ABRIL/" + rec.SuggestedName,
		Date:            date,
		Account:         account,
		Classification:  &rec,
		HeuristicUsed:   true,
	})
	r.Record(models.NewErrorOutcome(models.NewFileRecord("/src/EXT ABRIL 12345-6.pdf"), models.ReasonDateNotFound))
	r.Record(models.NewErrorOutcome(models.NewFileRecord("/src/abril.pdf"), models.ReasonDateNotFound))
	r.Finish(models.StateCompleted, started.Add(1500*time.Millisecond))
	return r
}

func TestGenerate_JSON(t *testing.T) {
	data, err := Generate(sampleReport(), FormatJSON)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(3), doc["total_files"])
	assert.Equal(t, float64(1), doc["success_count"])
	assert.Equal(t, "ADVANCED", doc["method"])
	assert.Equal(t, "completed", doc["state"])
	assert.Len(t, doc["outcomes"], 3)
}

func TestGenerate_YAML(t *testing.T) {
	data, err := Generate(sampleReport(), "YAML")
	require.NoError(t, err)

	var doc struct {
		RunID      string         `yaml:"run_id"`
		ErrorCount int            `yaml:"error_count"`
		Banks      map[string]int `yaml:"banks"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.ErrorCount)
	assert.Equal(t, 1, doc.Banks["ITAU"])
	assert.True(t, strings.HasPrefix(doc.RunID, "0f8c2a1e"))
}

func TestGenerate_CSV(t *testing.T) {
	data, err := Generate(sampleReport(), FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "file,status,action,destination,reason"))
	assert.Contains(t, lines[1], "ITAU")
	assert.Contains(t, lines[1], "excellent")
	assert.Contains(t, lines[2], models.ReasonDateNotFound)
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	_, err := Generate(sampleReport(), "xml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestWriter_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := logging.NewMockLogger()
	w := NewWriter(fs, "/reports", logger)

	path, err := w.Write(sampleReport(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "/reports/run_20250610_091500_0f8c2a1e.json", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.True(t, logger.HasEntry("INFO", "Report written"))
}

func TestWriter_WriteToReadOnlyFs(t *testing.T) {
	w := NewWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/reports", logging.NewMockLogger())
	_, err := w.Write(sampleReport(), FormatCSV)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleReport())
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Success)
	assert.Equal(t, 2, s.Errors)
	assert.Equal(t, "33.3%", s.RateString())
	assert.Equal(t, 1500*time.Millisecond, s.Duration)

	twoThirds := models.NewRunReport("x", models.MethodLocal, "/a", "/b", true, started)
	twoThirds.Record(models.ProcessingOutcome{Status: models.StatusSuccess})
	twoThirds.Record(models.ProcessingOutcome{Status: models.StatusSuccess})
	twoThirds.Record(models.NewErrorOutcome(models.FileRecord{}, "x"))
	assert.Equal(t, "66.7%", Summarize(twoThirds).RateString())

	empty := Summarize(models.NewRunReport("x", models.MethodLocal, "/a", "/b", true, started))
	assert.Equal(t, "0.0%", empty.RateString())
	assert.Zero(t, empty.Duration)
}
