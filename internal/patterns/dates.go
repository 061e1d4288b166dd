package patterns

import (
	"regexp"
	"strconv"
)

// Valid statement year range, inclusive.
const (
	MinYear = 2020
	MaxYear = 2030
)

// DateLayout is a numeric date layout. YearGroup and MonthGroup are capture
// group indexes; ShortYear marks a two-digit year that becomes 20YY.
type DateLayout struct {
	Name       string
	Regexp     *regexp.Regexp
	YearGroup  int
	MonthGroup int
	ShortYear  bool
}

// Numeric layouts, tried in order once the name and year-token passes are done.
var dateLayouts = []DateLayout{
	{Name: "MM_YYYY", Regexp: regexp.MustCompile(`(\d{1,2})[/\-.](\d{4})`), YearGroup: 2, MonthGroup: 1},
	// the short year must not be the head of a longer number ("12-2031" is not 12/2020)
	{Name: "MM_YY", Regexp: regexp.MustCompile(`(?:^|\D)(\d{1,2})[/\-.](\d{2})(?:\D|$)`), YearGroup: 2, MonthGroup: 1, ShortYear: true},
	{Name: "YYYY_MM", Regexp: regexp.MustCompile(`(\d{4})[/\-.](\d{1,2})`), YearGroup: 1, MonthGroup: 2},
	{Name: "YYYYMM", Regexp: regexp.MustCompile(`(\d{4})(\d{2})`), YearGroup: 1, MonthGroup: 2},
	{Name: "TIMESTAMP", Regexp: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), YearGroup: 1, MonthGroup: 2},
}

var digitRun = regexp.MustCompile(`\d+`)

// DateLayouts returns the numeric date layouts in precedence order.
func DateLayouts() []DateLayout {
	return dateLayouts
}

// FirstValidYearToken returns the first standalone 4-digit run (not adjacent
// to other digits) that falls inside [MinYear, MaxYear].
func FirstValidYearToken(text string) (string, bool) {
	for _, run := range digitRun.FindAllString(text, -1) {
		if len(run) == 4 && ValidYear(run) {
			return run, true
		}
	}
	return "", false
}

// ValidYear reports whether a 4-digit year string is inside the accepted range.
func ValidYear(year string) bool {
	if len(year) != 4 {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	return y >= MinYear && y <= MaxYear
}

// NormalizeMonth zero-pads a numeric month and reports whether it is 1..12.
func NormalizeMonth(month string) (string, bool) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	if m < 10 {
		return "0" + strconv.Itoa(m), true
	}
	return strconv.Itoa(m), true
}
