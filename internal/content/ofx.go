package content

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"fjacquet/statement-sorter/internal/logging"

	"github.com/aclindsa/ofxgo"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
)

// maxOFXBytes caps how much of an OFX file is read.
const maxOFXBytes = 1 << 20

// OFXReader reads excerpts from OFX files. When the statement header can be
// parsed, a one-line summary with the account and period leads the excerpt.
type OFXReader struct {
	fs     afero.Fs
	logger logging.Logger
}

// NewOFXReader returns an OFXReader.
func NewOFXReader(fs afero.Fs, logger logging.Logger) *OFXReader {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &OFXReader{fs: fs, logger: logger}
}

func (r *OFXReader) Excerpt(path string, maxChars int) string {
	f, err := r.fs.Open(path)
	if err != nil {
		r.logger.WithError(err).Debug("Cannot open OFX", logging.Field{Key: logging.FieldFile, Value: path})
		return ""
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxOFXBytes))
	if err != nil {
		return ""
	}

	text := decode(raw)
	if summary := Summarize(text); summary != "" {
		text = summary + "\n" + text
	}
	return truncate(text, maxChars)
}

// decode returns raw as UTF-8, falling back to Latin-1 for legacy files.
func decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "")
	}
	return string(decoded)
}

// Summarize parses an OFX document and returns "BANKID:... ACCTID:... DTSTART:... DTEND:..."
// for the first bank or credit card statement, or "" when it cannot be parsed.
func Summarize(text string) string {
	resp, err := ofxgo.ParseResponse(strings.NewReader(strings.TrimLeft(text, " \t\r\n")))
	if err != nil {
		return ""
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			parts := []string{
				"BANKID:" + string(stmt.BankAcctFrom.BankID),
				"ACCTID:" + string(stmt.BankAcctFrom.AcctID),
			}
			return strings.Join(append(parts, period(stmt.BankTranList)...), " ")
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			parts := []string{"ACCTID:" + string(stmt.CCAcctFrom.AcctID)}
			return strings.Join(append(parts, period(stmt.BankTranList)...), " ")
		}
	}
	return ""
}

func period(list *ofxgo.TransactionList) []string {
	if list == nil {
		return nil
	}
	return []string{
		fmt.Sprintf("DTSTART:%s", list.DtStart.Format("2006-01-02")),
		fmt.Sprintf("DTEND:%s", list.DtEnd.Format("2006-01-02")),
	}
}
