package organizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fjacquet/statement-sorter/internal/classifier"
	"fjacquet/statement-sorter/internal/fileutils"
	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/sorterror"
)

// Extraction methods for fields that did not come from the local extractor
const (
	MethodClassifier  = "CLASSIFICADOR_EXTERNO"
	MethodPlaceholder = "DATA_ATUAL"
)

// detection collects what is known about one file before naming it.
type detection struct {
	date        models.DateResult
	account     models.AccountResult
	bank        string
	heuristic   bool
	classifier  bool
	placeholder bool
}

func (o *Organizer) processFile(ctx context.Context, file models.FileRecord) models.ProcessingOutcome {
	d := o.detect(ctx, file)

	outcome := models.ProcessingOutcome{
		File:            file,
		Date:            d.date,
		Account:         d.account,
		HeuristicUsed:   d.heuristic,
		ClassifierUsed:  d.classifier,
		PlaceholderUsed: d.placeholder,
	}
	if !d.date.Found {
		return fail(outcome, &sorterror.ExtractionError{FilePath: file.OriginalPath, Field: "date", Reason: models.ReasonDateNotFound})
	}
	if !d.account.Found {
		return fail(outcome, &sorterror.ExtractionError{FilePath: file.OriginalPath, Field: "account", Reason: models.ReasonAccountNotFound})
	}

	target := o.namer.Standard(d.date, d.account, file)
	if o.opts.Advanced {
		hint := d.bank
		if hint == "" && o.deps.Classifier != nil {
			hint = o.opts.FallbackBank
		}
		rec := classifier.ClassifyWithBank(file.Name, d.date, d.account, hint)
		outcome.Classification = &rec
		target = o.namer.Advanced(d.date, d.account, file, rec)
	}

	dest, err := o.namer.Resolve(target)
	if err != nil {
		return fail(outcome, err)
	}
	outcome.DestinationPath = dest
	outcome.Structure = o.namer.Structure(dest)

	if o.opts.TestMode {
		outcome.Status = models.StatusSuccess
		outcome.ActionTaken = models.ActionSimulated
		return outcome
	}

	if _, err := fileutils.CopyVerified(o.deps.Fs, file.OriginalPath, dest); err != nil {
		if !errors.Is(err, fileutils.ErrModTimeNotKept) {
			o.namer.Release(dest)
			outcome.DestinationPath = ""
			outcome.Structure = ""
			return fail(outcome, err)
		}
		o.deps.Logger.WithError(err).Warn("Copied file keeps a new modification time",
			logging.Field{Key: logging.FieldFile, Value: file.OriginalPath})
	}
	outcome.Status = models.StatusSuccess
	outcome.ActionTaken = models.ActionCopied
	return outcome
}

// fail marks the outcome as an error; the reason is the error text.
func fail(outcome models.ProcessingOutcome, err error) models.ProcessingOutcome {
	outcome.Status = models.StatusError
	outcome.ErrorReason = err.Error()
	return outcome
}

// detect runs the local extractors and, when configured, the external
// classifier in the order given by the classifier mode. In fallback mode the
// classifier only fills fields the local extractors missed; in primary mode it
// goes first and a date still missing afterwards becomes the current month.
func (o *Organizer) detect(ctx context.Context, file models.FileRecord) detection {
	var d detection
	if o.deps.Classifier == nil {
		o.detectLocal(file, &d)
		return d
	}

	if o.opts.AIMode == AIModePrimary {
		o.ask(ctx, file, &d)
		o.detectLocal(file, &d)
		if !d.date.Found {
			now := o.deps.Now()
			d.date = models.NewDateResult(fmt.Sprintf("%02d", int(now.Month())), strconv.Itoa(now.Year()), MethodPlaceholder)
			d.placeholder = true
		}
		return d
	}

	o.detectLocal(file, &d)
	if !d.date.Found || !d.account.Found {
		o.ask(ctx, file, &d)
	}
	return d
}

// detectLocal fills the missing fields from the filename and its folder.
// heuristic is set when the date came from the local extractor.
func (o *Organizer) detectLocal(file models.FileRecord, d *detection) {
	if !d.date.Found {
		if date := o.deps.Engine.ExtractDate(file.Name, file.Dir()); date.Found {
			d.date = date
			d.heuristic = true
		}
	}
	if !d.account.Found {
		d.account = o.deps.Engine.ExtractAccount(file.Name)
	}
}

// ask fills the missing fields from the external classifier. A classifier
// failure leaves d unchanged.
func (o *Organizer) ask(ctx context.Context, file models.FileRecord, d *detection) {
	excerpt := ""
	if o.deps.Content != nil {
		excerpt = o.deps.Content.Excerpt(file.OriginalPath, o.opts.ExcerptChars)
	}

	st, err := o.deps.Classifier.ClassifyStatement(ctx, file.Name, excerpt)
	if err != nil {
		o.deps.Logger.WithError(err).Debug("Classifier gave no answer",
			logging.Field{Key: logging.FieldFile, Value: file.OriginalPath})
		return
	}

	d.classifier = true
	d.bank = st.Bank
	if !d.date.Found {
		d.date = models.NewDateResult(st.Month, st.Year, MethodClassifier)
	}
	if !d.account.Found {
		d.account = models.NewAccountResult(st.Account, MethodClassifier)
	}
}
