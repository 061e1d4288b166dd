package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/statement-sorter/internal/aiclient"
	"fjacquet/statement-sorter/internal/extractor"
	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/progress"
	"fjacquet/statement-sorter/internal/sorterror"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

const (
	marchStatement = "EXT 4049-5 março 2024.pdf"
	marchTarget    = "/dst/CONTA_40495/2024_03_MARCO/2024-03_40495_PDF.pdf"
)

type fakeClassifier struct {
	statement aiclient.Statement
	err       error
	calls     []string
}

func (f *fakeClassifier) ClassifyStatement(_ context.Context, filename, _ string) (aiclient.Statement, error) {
	f.calls = append(f.calls, filename)
	return f.statement, f.err
}

func (f *fakeClassifier) SuggestName(context.Context, string, string) (aiclient.Suggestion, error) {
	return aiclient.Suggestion{}, errors.New("not used")
}

// truncatingFs drops half of every write, simulating a faulty destination disk.
type truncatingFs struct {
	afero.Fs
}

type truncatingFile struct {
	afero.File
}

func (f truncatingFile) Write(p []byte) (int, error) {
	if _, err := f.File.Write(p[:len(p)/2]); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (t truncatingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := t.Fs.OpenFile(name, flag, perm)
	if err != nil || flag&os.O_WRONLY == 0 {
		return f, err
	}
	return truncatingFile{File: f}, nil
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, data := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(data), 0644))
	}
}

func newDeps(fs afero.Fs, store progress.Store) Dependencies {
	return Dependencies{
		Fs:       fs,
		Engine:   extractor.NewEngine(64),
		Store:    store,
		Logger:   logging.NewMockLogger(),
		Now:      func() time.Time { return fixedNow },
		NewRunID: func() string { return "run-1" },
	}
}

func baseOptions() Options {
	return Options{Source: "/src", Destination: "/dst", Recursive: true}
}

func TestRun_CopiesStatements(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/EXTRATO2025-04-123456.ofx":     "<OFX>statement</OFX>",
		"/src/EXT ABRIL 12345-6.pdf":         "no year anywhere",
		"/src/2023/18417-9 ABRIL.pdf":        "year from folder",
		"/src/" + marchStatement:             "march",
		"/src/notes.txt":                     "ignored",
		"/src/UPPER/EXT 4049-5 MAI 2024.PDF": "upper case extension",
	})
	store := progress.NewMemoryStore()

	var events []ProgressEvent
	o := New(newDeps(fs, store), baseOptions())
	report, err := o.Run(context.Background(), func(e ProgressEvent) { events = append(events, e) })
	require.NoError(t, err)

	assert.Equal(t, models.StateCompleted, report.State)
	assert.Equal(t, models.StateCompleted, o.State())
	assert.Equal(t, models.MethodLocal, report.Method)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 5, report.TotalFiles)
	assert.Equal(t, 4, report.SuccessCount)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, report.TotalFiles, report.SuccessCount+report.ErrorCount)
	require.Len(t, events, 5)
	assert.Equal(t, 5, events[4].Index)
	assert.Equal(t, 5, events[4].Total)

	byName := map[string]models.ProcessingOutcome{}
	for _, oc := range report.Outcomes {
		byName[oc.File.Name] = oc
	}

	failed := byName["EXT ABRIL 12345-6.pdf"]
	assert.Equal(t, models.StatusError, failed.Status)
	assert.Equal(t, models.ReasonDateNotFound, failed.ErrorReason)
	assert.Empty(t, failed.DestinationPath)

	ofx := byName["EXTRATO2025-04-123456.ofx"]
	assert.Equal(t, models.StatusSuccess, ofx.Status)
	assert.Equal(t, models.ActionCopied, ofx.ActionTaken)
	assert.Equal(t, "/dst/CONTA_2025/2025_04_ABRIL/2025-04_2025_OFX.ofx", ofx.DestinationPath)
	assert.Equal(t, "CONTA_2025/2025_04_ABRIL/2025-04_2025_OFX.ofx", ofx.Structure)

	fromFolder := byName["18417-9 ABRIL.pdf"]
	assert.Equal(t, "/dst/CONTA_184179/2023_04_ABRIL/2023-04_184179_PDF.pdf", fromFolder.DestinationPath)
	assert.True(t, fromFolder.HeuristicUsed)
	assert.False(t, fromFolder.ClassifierUsed)

	upper := byName["EXT 4049-5 MAI 2024.PDF"]
	assert.Equal(t, "/dst/CONTA_40495/2024_05_MAIO/2024-05_40495_PDF.pdf", upper.DestinationPath)

	data, err := afero.ReadFile(fs, marchTarget)
	require.NoError(t, err)
	assert.Equal(t, "march", string(data))

	// sources are copied, never moved
	exists, _ := afero.Exists(fs, "/src/"+marchStatement)
	assert.True(t, exists)

	log, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, log.Processed, 4)
	require.Len(t, log.Errors, 1)
	assert.Equal(t, "/src/EXT ABRIL 12345-6.pdf", log.Errors[0].Path)
	assert.Equal(t, 5, store.Saves())
}

func TestRun_AccountCheckedAfterDate(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/documento.pdf":    "x",
		"/src/fatura 03.24.pdf": "x",
	})

	report, err := New(newDeps(fs, progress.NewMemoryStore()), baseOptions()).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, models.ReasonDateNotFound, report.Outcomes[0].ErrorReason, "neither field, date reported")
	assert.Equal(t, models.ReasonAccountNotFound, report.Outcomes[1].ErrorReason)
	assert.True(t, report.Outcomes[1].Date.Found)
}

func TestRun_TestModeTouchesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/" + marchStatement: "march"})
	store := progress.NewMemoryStore()

	opts := baseOptions()
	opts.TestMode = true
	report, err := New(newDeps(fs, store), opts).Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, models.ActionSimulated, report.Outcomes[0].ActionTaken)
	assert.Equal(t, marchTarget, report.Outcomes[0].DestinationPath)
	assert.True(t, report.TestMode)

	exists, _ := afero.DirExists(fs, "/dst")
	assert.False(t, exists)
	assert.Zero(t, store.Saves())
}

func TestRun_CollisionsNeverOverwrite(t *testing.T) {
	for _, testMode := range []bool{false, true} {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{
			"/src/a/" + marchStatement: "first",
			"/src/b/" + marchStatement: "second",
			"/src/c/" + marchStatement: "third",
			marchTarget:                "already there",
		})

		opts := baseOptions()
		opts.TestMode = testMode
		report, err := New(newDeps(fs, progress.NewMemoryStore()), opts).Run(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, 3, report.SuccessCount)

		want := []string{
			"/dst/CONTA_40495/2024_03_MARCO/2024-03_40495_PDF_v01.pdf",
			"/dst/CONTA_40495/2024_03_MARCO/2024-03_40495_PDF_v02.pdf",
			"/dst/CONTA_40495/2024_03_MARCO/2024-03_40495_PDF_v03.pdf",
		}
		for i, oc := range report.Outcomes {
			assert.Equal(t, want[i], oc.DestinationPath, "test mode %v", testMode)
		}

		data, err := afero.ReadFile(fs, marchTarget)
		require.NoError(t, err)
		assert.Equal(t, "already there", string(data))

		if !testMode {
			data, err = afero.ReadFile(fs, want[1])
			require.NoError(t, err)
			assert.Equal(t, "second", string(data))
		}
	}
}

func TestRun_ResumeSecondRunHasNothingToDo(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/" + marchStatement:     "march",
		"/src/EXT ABRIL 12345-6.pdf": "no year",
	})
	store := progress.NewFileStore(fs, "/src", progress.DefaultFileName)

	opts := baseOptions()
	opts.Resume = true
	first, err := New(newDeps(fs, store), opts).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalFiles)

	second, err := New(newDeps(fs, store), opts).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, second.NothingToDo)
	assert.Equal(t, MessageAllProcessed, second.Message)
	assert.Zero(t, second.SuccessCount)
	assert.Zero(t, second.ErrorCount)
	assert.Equal(t, models.StateCompleted, second.State)
}

func TestRun_ResumeRetriesErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/" + marchStatement:     "march",
		"/src/EXT ABRIL 12345-6.pdf": "no year",
	})
	store := progress.NewMemoryStore()

	opts := baseOptions()
	opts.Resume = true
	_, err := New(newDeps(fs, store), opts).Run(context.Background(), nil)
	require.NoError(t, err)

	opts.RetryErrors = true
	report, err := New(newDeps(fs, store), opts).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalFiles)
	assert.Equal(t, "EXT ABRIL 12345-6.pdf", report.Outcomes[0].File.Name)

	log, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, log.Processed, 1)
	assert.Len(t, log.Errors, 1)
}

func TestRun_WithoutResumeClearsLog(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/" + marchStatement: "march"})
	store := progress.NewMemoryStore()
	previous := progress.NewLog()
	previous.AddSuccess("/src/"+marchStatement, marchTarget, fixedNow)
	require.NoError(t, store.Save(previous))

	report, err := New(newDeps(fs, store), baseOptions()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalFiles)

	log, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, log.Processed, 1)
}

func TestRun_NoFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src", 0750))
	writeFiles(t, fs, map[string]string{"/src/readme.txt": "x"})

	report, err := New(newDeps(fs, progress.NewMemoryStore()), baseOptions()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, report.NothingToDo)
	assert.Equal(t, MessageNoFiles, report.Message)
}

func TestRun_NonRecursiveIgnoresSubfolders(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/" + marchStatement:        "top",
		"/src/nested/" + marchStatement: "nested",
	})

	opts := baseOptions()
	opts.Recursive = false
	report, err := New(newDeps(fs, progress.NewMemoryStore()), opts).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalFiles)
}

func TestRun_DirectoryErrorsAbortBeforeAnyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/" + marchStatement: "march",
		"/file.pdf":              "x",
	})

	tests := []struct {
		name string
		src  string
		dst  string
		want error
	}{
		{"missing source", "/nowhere", "/dst", sorterror.ErrDirectoryMissing},
		{"source is a file", "/file.pdf", "/dst", sorterror.ErrNotDirectory},
		{"same directory", "/src", "/src/", sorterror.ErrSameDirectory},
		{"destination is a file", "/src", "/file.pdf", sorterror.ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := progress.NewMemoryStore()
			o := New(newDeps(fs, store), Options{Source: tt.src, Destination: tt.dst})
			report, err := o.Run(context.Background(), nil)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.want)

			var dirErr *sorterror.DirectoryError
			assert.True(t, errors.As(err, &dirErr))
			assert.Zero(t, store.Saves())
		})
	}

	exists, _ := afero.DirExists(fs, "/dst")
	assert.False(t, exists)
}

// unlistableFs refuses to open directories, like a source without read permission.
type unlistableFs struct {
	afero.Fs
}

func (u unlistableFs) Open(name string) (afero.File, error) {
	if ok, _ := afero.DirExists(u.Fs, name); ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return u.Fs.Open(name)
}

func TestRun_UnreadableSourceAborts(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/" + marchStatement: "march"})

	_, err := New(newDeps(unlistableFs{Fs: fs}, progress.NewMemoryStore()), baseOptions()).Run(context.Background(), nil)
	assert.ErrorIs(t, err, sorterror.ErrDirectoryReadonly)
}

func TestRun_RelativePathsAreMadeAbsolute(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	fs := afero.NewOsFs()
	writeFiles(t, fs, map[string]string{filepath.Join(dir, "src", marchStatement): "march"})

	_, err := New(newDeps(fs, progress.NewMemoryStore()), Options{Source: "src", Destination: filepath.Join(dir, "src")}).
		Run(context.Background(), nil)
	assert.ErrorIs(t, err, sorterror.ErrSameDirectory)

	store := progress.NewMemoryStore()
	report, err := New(newDeps(fs, store), Options{Source: "src", Destination: "out"}).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.SuccessCount)

	original := filepath.Join(dir, "src", marchStatement)
	assert.Equal(t, filepath.Join(dir, "src"), report.Source)
	assert.Equal(t, original, report.Outcomes[0].File.OriginalPath)
	assert.Equal(t, filepath.Join(dir, "out", "CONTA_40495", "2024_03_MARCO", "2024-03_40495_PDF.pdf"),
		report.Outcomes[0].DestinationPath)

	log, err := store.Load()
	require.NoError(t, err)
	assert.True(t, log.IsHandled(original, false))

	// the destination subtree is skipped whichever side is relative
	for _, opts := range []Options{
		{Source: filepath.Join(dir, "src"), Destination: "src/organized", Recursive: true},
		{Source: "src", Destination: filepath.Join(dir, "src", "organized"), Recursive: true},
	} {
		nested, err := New(newDeps(fs, progress.NewMemoryStore()), opts).Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, nested.TotalFiles)
	}
}

func TestRun_YearFromSourceFolderName(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/extratos 2024/EXT ABRIL 12345-6.pdf": "no year in the name"})

	opts := Options{Source: "/extratos 2024", Destination: "/dst"}
	report, err := New(newDeps(fs, progress.NewMemoryStore()), opts).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, models.StatusSuccess, report.Outcomes[0].Status)
	assert.Equal(t, "/dst/CONTA_123456/2024_04_ABRIL/2024-04_123456_PDF.pdf", report.Outcomes[0].DestinationPath)
}

func TestRun_MissingDirectoriesAreConfigErrors(t *testing.T) {
	_, err := New(newDeps(afero.NewMemMapFs(), nil), Options{Source: "/src"}).Run(context.Background(), nil)
	var cfgErr *sorterror.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRun_CorruptProgressLogAborts(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/" + marchStatement:           "march",
		"/src/" + progress.DefaultFileName: "{not json",
	})

	opts := baseOptions()
	opts.Resume = true
	_, err := New(newDeps(fs, progress.NewFileStore(fs, "/src", progress.DefaultFileName)), opts).Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRun_CancelledBetweenFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/a/" + marchStatement: "a",
		"/src/b/" + marchStatement: "b",
		"/src/c/" + marchStatement: "c",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	o := New(newDeps(fs, progress.NewMemoryStore()), baseOptions())
	report, err := o.Run(ctx, func(e ProgressEvent) {
		if e.Index == 1 {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.True(t, report.Cancelled)
	assert.Equal(t, models.StateCancelled, report.State)
	assert.Equal(t, models.StateCancelled, o.State())
	assert.Equal(t, 1, report.TotalFiles)
	assert.Len(t, report.Outcomes, 1)
}

func TestRun_SizeMismatchRemovesCopy(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, map[string]string{"/src/" + marchStatement: "a statement long enough to be cut"})
	store := progress.NewMemoryStore()

	report, err := New(newDeps(truncatingFs{Fs: base}, store), baseOptions()).Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	oc := report.Outcomes[0]
	assert.Equal(t, models.StatusError, oc.Status)
	assert.Contains(t, oc.ErrorReason, "size mismatch")
	assert.Empty(t, oc.DestinationPath)

	exists, _ := afero.Exists(base, marchTarget)
	assert.False(t, exists, "partial copy must be removed")

	log, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, log.Errors, 1)
}

func TestRun_DestinationInsideSourceIsSkipped(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/" + marchStatement: "march",
		"/src/organized/CONTA_1/2024_01_JANEIRO/2024-01_1234_PDF.pdf": "earlier output",
	})

	opts := Options{Source: "/src", Destination: "/src/organized", Recursive: true}
	report, err := New(newDeps(fs, progress.NewMemoryStore()), opts).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalFiles)
	assert.Equal(t, marchStatement, report.Outcomes[0].File.Name)
}

func TestRun_AdvancedLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/EXT 4049-5 março 2024 itau poupanca.pdf": "x"})

	opts := baseOptions()
	opts.Advanced = true
	opts.TestMode = true
	report, err := New(newDeps(fs, progress.NewMemoryStore()), opts).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.MethodAdvanced, report.Method)
	require.Len(t, report.Outcomes, 1)
	oc := report.Outcomes[0]
	require.NotNil(t, oc.Classification)
	assert.Equal(t, "ITAU", oc.Classification.Bank)
	assert.Equal(t, models.CategoryExcellent, oc.Classification.Category)
	assert.Equal(t,
		"/dst/ITAU_CONTA_40495/2024_03_MARCO/POUPANCA/2024-03_40495_POUPANCA_ITAU_PDF.pdf",
		oc.DestinationPath)
	assert.Equal(t, 1, report.Banks["ITAU"])
	assert.Equal(t, 1, report.AccountTypes["POUPANCA"])
	assert.Equal(t, 1, report.Stats.BankDetected)
}

func TestRun_ClassifierFallbackFillsMissingFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/EXT ABRIL 12345-6.pdf": "no year",
		"/src/" + marchStatement:     "complete",
	})
	clf := &fakeClassifier{statement: aiclient.Statement{Bank: "NUBANK", Month: "04", Year: "2022"}}

	deps := newDeps(fs, progress.NewMemoryStore())
	deps.Classifier = clf
	opts := baseOptions()
	opts.TestMode = true
	opts.Advanced = true
	opts.FallbackBank = "BANCO"
	report, err := New(deps, opts).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.MethodAI, report.Method)
	assert.Equal(t, []string{"EXT ABRIL 12345-6.pdf"}, clf.calls, "complete files never reach the classifier")
	require.Equal(t, 2, report.SuccessCount)

	filled := report.Outcomes[1]
	assert.Equal(t, "2022", filled.Date.Year)
	assert.Equal(t, MethodClassifier, filled.Date.Method)
	assert.Equal(t, "123456", filled.Account.Value)
	assert.True(t, filled.ClassifierUsed)
	assert.False(t, filled.HeuristicUsed)
	assert.Equal(t, "NUBANK", filled.Classification.Bank)

	local := report.Outcomes[0]
	assert.True(t, local.HeuristicUsed)
	assert.False(t, local.ClassifierUsed)
	assert.Equal(t, "BANCO", local.Classification.Bank)
}

func TestRun_ClassifierPrimaryUsesPlaceholderOnFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/EXT 4049-5.pdf": "no date",
		"/src/sem conta.pdf":  "nothing",
	})
	clf := &fakeClassifier{err: &sorterror.ClassifierError{Provider: "fake", Err: errors.New("timeout")}}

	deps := newDeps(fs, progress.NewMemoryStore())
	deps.Classifier = clf
	opts := baseOptions()
	opts.TestMode = true
	opts.AIMode = AIModePrimary
	report, err := New(deps, opts).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, clf.calls, 2)
	require.Len(t, report.Outcomes, 2)

	placeholder := report.Outcomes[0]
	assert.Equal(t, models.StatusSuccess, placeholder.Status)
	assert.True(t, placeholder.PlaceholderUsed)
	assert.False(t, placeholder.HeuristicUsed)
	assert.False(t, placeholder.ClassifierUsed)
	assert.Equal(t, "06", placeholder.Date.Month)
	assert.Equal(t, "2025", placeholder.Date.Year)
	assert.Equal(t, "/dst/CONTA_40495/2025_06_JUNHO/2025-06_40495_PDF.pdf", placeholder.DestinationPath)

	// an account is never invented
	noAccount := report.Outcomes[1]
	assert.Equal(t, models.StatusError, noAccount.Status)
	assert.Equal(t, models.ReasonAccountNotFound, noAccount.ErrorReason)
}

func TestRun_ClassifierPrimaryAnswerWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/src/" + marchStatement: "x"})
	clf := &fakeClassifier{statement: aiclient.Statement{Account: "999888", Month: "12", Year: "2023"}}

	deps := newDeps(fs, progress.NewMemoryStore())
	deps.Classifier = clf
	opts := baseOptions()
	opts.TestMode = true
	opts.AIMode = AIModePrimary
	report, err := New(deps, opts).Run(context.Background(), nil)
	require.NoError(t, err)

	oc := report.Outcomes[0]
	assert.Equal(t, "/dst/CONTA_999888/2023_12_DEZEMBRO/2023-12_999888_PDF.pdf", oc.DestinationPath)
	assert.True(t, oc.ClassifierUsed)
	assert.False(t, oc.HeuristicUsed)
}

func TestRun_LogsOneLinePerFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/" + marchStatement:     "march",
		"/src/EXT ABRIL 12345-6.pdf": "no year",
	})
	deps := newDeps(fs, progress.NewMemoryStore())
	logger := logging.NewMockLogger()
	deps.Logger = logger

	_, err := New(deps, baseOptions()).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, logger.HasEntry("INFO", "File organized"))
	assert.True(t, logger.HasEntry("WARN", "File not organized"))
	assert.True(t, logger.HasEntry("INFO", "Run completed"))
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
