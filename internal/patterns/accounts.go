package patterns

import "regexp"

// AccountRule is a named account-number pattern. Group is the capture group
// holding the raw account value.
type AccountRule struct {
	Name   string
	Regexp *regexp.Regexp
	Group  int
}

// Account rule names, in precedence order.
const (
	RuleStartMonth       = "INICIO_MES"
	RuleStartMonthAbbrev = "INICIO_MES_ABREV"
	RuleMonthStart       = "MES_INICIO"
	RuleExtSimple        = "EXT_SIMPLES"
	RuleExt              = "EXT"
	RuleCaixa            = "CAIXA"
	RuleExtratoLong      = "EXTRATO_LONGO"
	RuleExtrato          = "EXTRATO"
	RuleGFI              = "GFI"
	RuleBank             = "BANCO"
	RuleHyphenSpace      = "HIFEN_ESPACO"
	RuleHyphen           = "HIFEN"
	RuleHyphenLetter     = "HIFEN_LETRA"
	RuleLongTimestamp    = "TIMESTAMP_LONGO"
	RuleDateCode         = "CODIGO_DATA"
	RuleSimple           = "SIMPLES"
)

// MinAccountLength is the shortest cleaned account value that is accepted.
const MinAccountLength = 3

// Rules run against the folded (upper-case, accent-free) filename; first match wins.
var accountRules = []AccountRule{
	// 18417-9 ABRIL
	{Name: RuleStartMonth, Regexp: regexp.MustCompile(`^(\d{4,8}-?[A-Z0-9])\s+(?:` + fullMonthAlternation + `)`), Group: 1},
	// 28758-X MAI
	{Name: RuleStartMonthAbbrev, Regexp: regexp.MustCompile(`^(\d{4,8}-?[A-Z0-9])\s+(?:` + abbrevMonthAlternation + `)`), Group: 1},
	// FEV 28142-5
	{Name: RuleMonthStart, Regexp: regexp.MustCompile(`^(?:` + abbrevMonthAlternation + `)\s+(\d{4,8}-?[A-Z0-9])`), Group: 1},
	// EXT 4049-5
	{Name: RuleExtSimple, Regexp: regexp.MustCompile(`^EXT\s+(\d+-?\w*)`), Group: 1},
	// EXT ABRIL 12345-6
	{Name: RuleExt, Regexp: regexp.MustCompile(`EXT\w*\s+\w*\s*(\d+-?\w*)`), Group: 1},
	// CAIXA JAN 123-4
	{Name: RuleCaixa, Regexp: regexp.MustCompile(`CAIXA\w*\s+\w*\s+(\d+-?\w*)`), Group: 1},
	// EXTRATO6769113603
	{Name: RuleExtratoLong, Regexp: regexp.MustCompile(`EXTRATO(\d{8,})`), Group: 1},
	{Name: RuleExtrato, Regexp: regexp.MustCompile(`EXTRATO\s*(\d+)`), Group: 1},
	// GFI625082025
	{Name: RuleGFI, Regexp: regexp.MustCompile(`GFI(\d+)`), Group: 1},
	{Name: RuleBank, Regexp: regexp.MustCompile(`(?:BANCO|CONTA|CC|AG)\s*(\d+-?\w*)`), Group: 1},
	// 22989- X
	{Name: RuleHyphenSpace, Regexp: regexp.MustCompile(`(\d{4,8}-\s*[A-Z0-9])`), Group: 1},
	{Name: RuleHyphen, Regexp: regexp.MustCompile(`(\d{3,8}-\d)`), Group: 1},
	{Name: RuleHyphenLetter, Regexp: regexp.MustCompile(`(\d{3,8}-[A-Z0-9])`), Group: 1},
	// timestamps and other long runs rank low so they do not shadow real accounts
	{Name: RuleLongTimestamp, Regexp: regexp.MustCompile(`(\d{15,})`), Group: 1},
	// code immediately followed by a 4-digit year
	{Name: RuleDateCode, Regexp: regexp.MustCompile(`(\d{8,12})\d{4}`), Group: 1},
	{Name: RuleSimple, Regexp: regexp.MustCompile(`(?:^|\D)(\d{4,8})(?:\D|$)`), Group: 1},
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// AccountRules returns the account rules in precedence order.
func AccountRules() []AccountRule {
	return accountRules
}

// CleanAccount strips everything but upper-case letters and digits.
func CleanAccount(raw string) string {
	return nonAlphanumeric.ReplaceAllString(Fold(raw), "")
}
