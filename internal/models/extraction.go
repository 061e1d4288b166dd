package models

// DateResult is the outcome of date extraction. Found is true only when both
// Month and Year are set; a partial result is never returned.
type DateResult struct {
	Month  string `json:"month,omitempty" yaml:"month,omitempty"` // "01".."12"
	Year   string `json:"year,omitempty" yaml:"year,omitempty"`   // "2020".."2030"
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	Found  bool   `json:"found" yaml:"found"`
}

// NewDateResult returns a found result when month and year are both present,
// and an empty not-found result otherwise.
func NewDateResult(month, year, method string) DateResult {
	if month == "" || year == "" {
		return DateResult{}
	}
	return DateResult{Month: month, Year: year, Method: method, Found: true}
}

// YearMonth formats the date as "YYYY-MM", or "" when not found.
func (d DateResult) YearMonth() string {
	if !d.Found {
		return ""
	}
	return d.Year + "-" + d.Month
}

// AccountResult is the outcome of account extraction.
type AccountResult struct {
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	Found  bool   `json:"found" yaml:"found"`
}

// NewAccountResult returns a found result for a non-empty value.
func NewAccountResult(value, method string) AccountResult {
	if value == "" {
		return AccountResult{}
	}
	return AccountResult{Value: value, Method: method, Found: true}
}
