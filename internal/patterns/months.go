package patterns

import "regexp"

const (
	fullMonthAlternation   = `JANEIRO|FEVEREIRO|MARCO|ABRIL|MAIO|JUNHO|JULHO|AGOSTO|SETEMBRO|OUTUBRO|NOVEMBRO|DEZEMBRO`
	abbrevMonthAlternation = `JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ`
)

// MonthRule is a named month-token pattern. The month token is capture group 1.
type MonthRule struct {
	Name   string
	Regexp *regexp.Regexp
}

// Month rules, evaluated in order against folded text.
// An abbreviation must not be followed by a letter ("JULIANA" is not July),
// but may follow one ("EXTRATOJAN2024") or touch digits ("FEV2024").
var monthRules = []MonthRule{
	{Name: "MES_NOME_COMPLETO", Regexp: regexp.MustCompile(`(` + fullMonthAlternation + `)`)},
	{Name: "MES_NOME_ABREV", Regexp: regexp.MustCompile(`(` + abbrevMonthAlternation + `)(?:[^A-Z]|$)`)},
}

var monthNumbers = map[string]string{
	"JANEIRO": "01", "JAN": "01",
	"FEVEREIRO": "02", "FEV": "02",
	"MARCO": "03", "MAR": "03",
	"ABRIL": "04", "ABR": "04",
	"MAIO": "05", "MAI": "05",
	"JUNHO": "06", "JUN": "06",
	"JULHO": "07", "JUL": "07",
	"AGOSTO": "08", "AGO": "08",
	"SETEMBRO": "09", "SET": "09",
	"OUTUBRO": "10", "OUT": "10",
	"NOVEMBRO": "11", "NOV": "11",
	"DEZEMBRO": "12", "DEZ": "12",
}

var monthNames = map[string]string{
	"01": "JANEIRO", "02": "FEVEREIRO", "03": "MARCO",
	"04": "ABRIL", "05": "MAIO", "06": "JUNHO",
	"07": "JULHO", "08": "AGOSTO", "09": "SETEMBRO",
	"10": "OUTUBRO", "11": "NOVEMBRO", "12": "DEZEMBRO",
}

// MonthRules returns the month rules in precedence order.
func MonthRules() []MonthRule {
	return monthRules
}

// MonthNumber maps a Portuguese month name or abbreviation to "01".."12".
// The token is folded first, so accented spellings are accepted.
func MonthNumber(token string) (string, bool) {
	mm, ok := monthNumbers[Fold(token)]
	return mm, ok
}

// MonthName returns the folder label for a two-digit month, or "DESCONHECIDO".
func MonthName(mm string) string {
	if name, ok := monthNames[mm]; ok {
		return name
	}
	return "DESCONHECIDO"
}
