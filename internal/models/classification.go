package models

// AccountType is the kind of account detected from a filename.
type AccountType string

// Account types
const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeDefault    AccountType = "default"
)

// Label returns the folder/filename label for the account type,
// or "" for the default type.
func (t AccountType) Label() string {
	switch t {
	case AccountTypeChecking:
		return "CORRENTE"
	case AccountTypeSavings:
		return "POUPANCA"
	case AccountTypeInvestment:
		return "INVESTIMENTO"
	default:
		return ""
	}
}

// Category is the confidence bucket of a classification.
type Category string

// Confidence categories
const (
	CategoryExcellent   Category = "excellent"
	CategoryGood        Category = "good"
	CategoryRegular     Category = "regular"
	CategoryProblematic Category = "problematic"
)

// Score weights
const (
	ScoreDate    = 50
	ScoreAccount = 40
	ScoreBank    = 5
	ScoreType    = 5
)

// ClassificationRecord is the advanced-mode analysis of a filename.
type ClassificationRecord struct {
	Bank            string      `json:"bank,omitempty" yaml:"bank,omitempty"`
	AccountType     AccountType `json:"account_type" yaml:"account_type"`
	ConfidenceScore int         `json:"confidence_score" yaml:"confidence_score"`
	Category        Category    `json:"category" yaml:"category"`
	SuggestedName   string      `json:"suggested_name,omitempty" yaml:"suggested_name,omitempty"`
}

// HasBank reports whether a bank was detected.
func (c ClassificationRecord) HasBank() bool {
	return c.Bank != ""
}

// HasAccountType reports whether a non-default account type was detected.
func (c ClassificationRecord) HasAccountType() bool {
	return c.AccountType != "" && c.AccountType != AccountTypeDefault
}
