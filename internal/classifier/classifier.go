// Package classifier scores a filename's extraction results and detects the
// bank and account type for the advanced folder layout.
package classifier

import (
	"path/filepath"
	"regexp"
	"strings"

	"fjacquet/statement-sorter/internal/models"
	"fjacquet/statement-sorter/internal/patterns"
)

type bankRule struct {
	bank   string
	regexp *regexp.Regexp
}

type typeRule struct {
	accountType models.AccountType
	regexp      *regexp.Regexp
}

// Evaluated in order against the folded filename; first match wins.
var bankRules = []bankRule{
	{"CAIXA", regexp.MustCompile(`CAIXA`)},
	{"BANCO_DO_BRASIL", regexp.MustCompile(`BANCO.DO.BRASIL|(?:^|[^A-Z])BB(?:[^A-Z]|$)`)},
	{"ITAU", regexp.MustCompile(`ITAU`)},
	{"BRADESCO", regexp.MustCompile(`BRADESCO`)},
	{"SANTANDER", regexp.MustCompile(`SANTANDER`)},
}

var typeRules = []typeRule{
	{models.AccountTypeInvestment, regexp.MustCompile(`INVEST|INEST`)},
	{models.AccountTypeSavings, regexp.MustCompile(`POUP`)},
	{models.AccountTypeChecking, regexp.MustCompile(`CORRENTE|(?:^|[^A-Z])CC(?:[^A-Z]|$)`)},
}

// DetectBank returns the normalized bank identifier found in the filename.
func DetectBank(name string) (string, bool) {
	text := patterns.Fold(name)
	for _, rule := range bankRules {
		if rule.regexp.MatchString(text) {
			return rule.bank, true
		}
	}
	return "", false
}

// DetectAccountType returns the account type keyword found in the filename,
// or AccountTypeDefault.
func DetectAccountType(name string) models.AccountType {
	text := patterns.Fold(name)
	for _, rule := range typeRules {
		if rule.regexp.MatchString(text) {
			return rule.accountType
		}
	}
	return models.AccountTypeDefault
}

// CategoryFor maps a confidence score to its category.
func CategoryFor(score int) models.Category {
	switch {
	case score >= 90:
		return models.CategoryExcellent
	case score >= 70:
		return models.CategoryGood
	case score >= 50:
		return models.CategoryRegular
	default:
		return models.CategoryProblematic
	}
}

// Score adds up the weights of the sub-extractions that succeeded.
func Score(dateFound, accountFound, bankFound, typeFound bool) int {
	score := 0
	if dateFound {
		score += models.ScoreDate
	}
	if accountFound {
		score += models.ScoreAccount
	}
	if bankFound {
		score += models.ScoreBank
	}
	if typeFound {
		score += models.ScoreType
	}
	return score
}

// Classify builds the classification record for a filename given its date
// and account extraction results.
func Classify(name string, date models.DateResult, account models.AccountResult) models.ClassificationRecord {
	return ClassifyWithBank(name, date, account, "")
}

// ClassifyWithBank is Classify with a bank hint, used when the filename names
// no known bank. The hint comes from the external classifier.
func ClassifyWithBank(name string, date models.DateResult, account models.AccountResult, hint string) models.ClassificationRecord {
	bank, bankFound := DetectBank(name)
	if !bankFound && hint != "" {
		bank, bankFound = hint, true
	}
	accountType := DetectAccountType(name)
	typeFound := accountType != models.AccountTypeDefault

	score := Score(date.Found, account.Found, bankFound, typeFound)

	return models.ClassificationRecord{
		Bank:            bank,
		AccountType:     accountType,
		ConfidenceScore: score,
		Category:        CategoryFor(score),
		SuggestedName:   SuggestName(name, date, account, bank, accountType),
	}
}

// SuggestName joins the non-empty parts {year}-{month}, account, account type,
// bank and file type tag with underscores, followed by the lower-case extension.
func SuggestName(name string, date models.DateResult, account models.AccountResult, bank string, accountType models.AccountType) string {
	ext := strings.ToLower(filepath.Ext(name))
	tag := models.TypeTagOFX
	if ext == ".pdf" {
		tag = models.TypeTagPDF
	}

	candidates := []string{date.YearMonth(), account.Value, accountType.Label(), bank, tag}
	parts := make([]string, 0, len(candidates))
	for _, p := range candidates {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_") + ext
}
