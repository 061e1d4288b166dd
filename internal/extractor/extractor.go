// Package extractor infers the statement month/year and the account number
// from a filename using the ordered rules of the patterns package.
package extractor

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/patterns"
)

// Method labels for the year-token pass and for defaulted halves.
const (
	MethodYearToken = "ANO_4DIGITOS"
	MethodDefault   = "PADRAO"
)

// Engine runs the date and account extractors. An Engine is meant to be owned
// by a single run; its cache is never shared across runs.
type Engine struct {
	dates              *boundedCache[models.DateResult]
	accounts           *boundedCache[models.AccountResult]
	defaultMissingDate bool
	now                func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultMissingDate fills a missing month or year with the current one
// when the other half was found. Without it a partial date is not-found.
func WithDefaultMissingDate(now func() time.Time) Option {
	return func(e *Engine) {
		e.defaultMissingDate = true
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an Engine whose caches hold at most cacheSize entries each.
// A cacheSize of zero disables caching.
func NewEngine(cacheSize int, opts ...Option) *Engine {
	e := &Engine{
		dates:    newBoundedCache[models.DateResult](cacheSize),
		accounts: newBoundedCache[models.AccountResult](cacheSize),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractDate resolves the statement month and year from a filename and an
// optional parent path. Both are searched as one upper-cased surface so a year
// in a folder name can complete a filename that omits it.
func (e *Engine) ExtractDate(name, parentPath string) models.DateResult {
	key := name + "\x00" + parentPath
	if cached, ok := e.dates.get(key); ok {
		return cached
	}

	result := e.extractDate(patterns.Fold(strings.TrimSpace(name + " " + parentPath)))
	e.dates.put(key, result)
	return result
}

func (e *Engine) extractDate(text string) models.DateResult {
	var month, year, monthMethod, yearMethod string

	for _, rule := range patterns.MonthRules() {
		m := rule.Regexp.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if mm, ok := patterns.MonthNumber(m[1]); ok {
			month, monthMethod = mm, rule.Name
			break
		}
	}

	if y, ok := patterns.FirstValidYearToken(text); ok {
		year, yearMethod = y, MethodYearToken
	}

	for _, layout := range patterns.DateLayouts() {
		if month != "" && year != "" {
			break
		}
		for _, m := range layout.Regexp.FindAllStringSubmatch(text, -1) {
			if month == "" {
				if mm, ok := patterns.NormalizeMonth(m[layout.MonthGroup]); ok {
					month, monthMethod = mm, layout.Name
				}
			}
			if year == "" {
				candidate := m[layout.YearGroup]
				if layout.ShortYear {
					candidate = "20" + candidate
				}
				if patterns.ValidYear(candidate) {
					year, yearMethod = candidate, layout.Name
				}
			}
			if month != "" && year != "" {
				break
			}
		}
	}

	if e.defaultMissingDate && (month == "") != (year == "") {
		now := e.now()
		if month == "" {
			month, monthMethod = fmt.Sprintf("%02d", int(now.Month())), MethodDefault
		} else {
			year, yearMethod = fmt.Sprintf("%04d", now.Year()), MethodDefault
		}
	}

	return models.NewDateResult(month, year, monthMethod+"/"+yearMethod)
}

// ExtractAccount resolves the account number from the filename alone. The
// first matching rule wins; a cleaned value shorter than the minimum length
// is treated as not found.
func (e *Engine) ExtractAccount(name string) models.AccountResult {
	if cached, ok := e.accounts.get(name); ok {
		return cached
	}

	result := extractAccount(patterns.Fold(name))
	e.accounts.put(name, result)
	return result
}

func extractAccount(text string) models.AccountResult {
	for _, rule := range patterns.AccountRules() {
		m := rule.Regexp.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		account := patterns.CleanAccount(m[rule.Group])
		if len(account) < patterns.MinAccountLength {
			return models.AccountResult{}
		}
		return models.NewAccountResult(account, rule.Name)
	}
	return models.AccountResult{}
}
