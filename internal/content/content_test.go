package content

import (
	"errors"
	"io"
	"strings"
	"testing"

	"fjacquet/statement-sorter/internal/logging"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250430120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0341
<ACCTID>123456
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250401120000[0:GMT]
<DTEND>20250430120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250415120000[0:GMT]
<TRNAMT>-25.50
<FITID>2025041501
<NAME>PADARIA
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20250430120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

type stubExtractor struct {
	text  string
	err   error
	panic bool
}

func (s stubExtractor) ExtractText(_ io.ReaderAt, _ int64) (string, error) {
	if s.panic {
		panic("broken xref table")
	}
	return s.text, s.err
}

func TestPDFReader_Excerpt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.pdf", []byte("%PDF-1.4"), 0644))

	r := NewPDFReaderWithExtractor(fs, stubExtractor{text: "  Extrato Itaú abril 2025  "}, logging.NewMockLogger())
	assert.Equal(t, "Extrato Itaú abril 2025", r.Excerpt("/src/a.pdf", 100))
	assert.Equal(t, "Extrato Itaú", r.Excerpt("/src/a.pdf", 12), "truncation counts characters, not bytes")
}

func TestPDFReader_FailuresYieldEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.pdf", []byte("%PDF-1.4"), 0644))
	logger := logging.NewMockLogger()

	failing := NewPDFReaderWithExtractor(fs, stubExtractor{err: errors.New("encrypted")}, logger)
	assert.Equal(t, "", failing.Excerpt("/src/a.pdf", 100))
	assert.Equal(t, "", failing.Excerpt("/src/missing.pdf", 100))
	assert.NotEmpty(t, logger.EntriesAt("DEBUG"))
}

func TestPlainTextExtractor_RejectsGarbage(t *testing.T) {
	data := "this is not a pdf"
	text, err := PlainTextExtractor{}.ExtractText(strings.NewReader(data), int64(len(data)))
	assert.Error(t, err)
	assert.Empty(t, text)
}

func TestPDFReader_RealExtractorOnGarbageIsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/broken.pdf", []byte("garbage"), 0644))

	r := NewPDFReader(fs, logging.NewMockLogger())
	assert.Equal(t, "", r.Excerpt("/src/broken.pdf", 100))
}

func TestOFXReader_ExcerptWithSummary(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/extrato.ofx", []byte(sampleOFX), 0644))

	excerpt := NewOFXReader(fs, logging.NewMockLogger()).Excerpt("/src/extrato.ofx", 5000)
	firstLine := strings.SplitN(excerpt, "\n", 2)[0]
	assert.Equal(t, "BANKID:0341 ACCTID:123456 DTSTART:2025-04-01 DTEND:2025-04-30", firstLine)
	assert.Contains(t, excerpt, "<ACCTID>123456")
}

func TestOFXReader_Latin1Fallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	// "AGÊNCIA" in ISO-8859-1
	raw := []byte{'A', 'G', 0xCA, 'N', 'C', 'I', 'A'}
	require.NoError(t, afero.WriteFile(fs, "/src/legacy.ofx", raw, 0644))

	excerpt := NewOFXReader(fs, logging.NewMockLogger()).Excerpt("/src/legacy.ofx", 100)
	assert.Equal(t, "AGÊNCIA", excerpt)
}

func TestSummarize_Unparseable(t *testing.T) {
	assert.Equal(t, "", Summarize("not an ofx document"))
}

type fixedReader string

func (f fixedReader) Excerpt(string, int) string { return string(f) }

func TestDispatcher(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.OFX", []byte("plain ofx text"), 0644))

	d := NewDispatcher(fs, logging.NewMockLogger())
	assert.Equal(t, "plain ofx text", d.Excerpt("/src/a.OFX", 100))
	assert.Equal(t, "", d.Excerpt("/src/a.txt", 100))

	d.Register(".PDF", fixedReader("stub pdf"))
	assert.Equal(t, "stub pdf", d.Excerpt("/src/b.pdf", 100))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Len(t, truncate(strings.Repeat("x", DefaultMaxChars+10), 0), DefaultMaxChars)
}
