package aiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/statement-sorter/internal/patterns"
)

// ErrMalformedResponse is returned when a model answer cannot be decoded.
var ErrMalformedResponse = errors.New("malformed classifier response")

// Defaults for a suggestion with missing fields
const (
	DefaultSuggestedName = "documento"
	DefaultCategory      = "diversos"
)

const statementPrompt = `Analise o extrato bancário e retorne JSON:
Nome: %s
Conteúdo: %s

{"banco":"NOME","conta":"12345-6 ou null","mes":"MM","ano":"AAAA"}

Apenas JSON, sem markdown.`

const suggestionPrompt = `Analise o documento e retorne JSON:
Nome: %s
Conteúdo: %s

{"nome_sugerido":"descricao_curta","categoria":"tipo","data":"AAAA-MM-DD ou null"}

Apenas JSON, sem markdown.`

// StatementPrompt builds the prompt asking for bank, account, month and year.
func StatementPrompt(filename, excerpt string) string {
	return fmt.Sprintf(statementPrompt, filename, excerpt)
}

// SuggestionPrompt builds the prompt asking for a descriptive filename.
func SuggestionPrompt(filename, excerpt string) string {
	return fmt.Sprintf(suggestionPrompt, filename, excerpt)
}

var nonAlnumRun = regexp.MustCompile(`[^A-Z0-9]+`)

// ParseStatement decodes a statement answer. Month and year are required and
// validated; the bank is folded to an upper-case identifier and the account is
// cleaned like a filename-extracted one.
func ParseStatement(text string) (Statement, error) {
	raw, err := decodeObject(text)
	if err != nil {
		return Statement{}, err
	}

	month, ok := patterns.NormalizeMonth(field(raw, "mes"))
	if !ok {
		return Statement{}, fmt.Errorf("%w: missing or invalid month", ErrMalformedResponse)
	}
	year := field(raw, "ano")
	if !patterns.ValidYear(year) {
		return Statement{}, fmt.Errorf("%w: missing or invalid year %q", ErrMalformedResponse, year)
	}

	bank := strings.Trim(nonAlnumRun.ReplaceAllString(patterns.Fold(field(raw, "banco")), "_"), "_")
	account := patterns.CleanAccount(field(raw, "conta"))
	if len(account) < patterns.MinAccountLength {
		account = ""
	}

	return Statement{Bank: bank, Account: account, Month: month, Year: year}, nil
}

// ParseSuggestion decodes a generic-document answer. Missing name and
// category take defaults; a date that is not YYYY-MM-DD is dropped.
func ParseSuggestion(text string) (Suggestion, error) {
	raw, err := decodeObject(text)
	if err != nil {
		return Suggestion{}, err
	}

	s := Suggestion{
		SuggestedName: field(raw, "nome_sugerido"),
		Category:      field(raw, "categoria"),
		Date:          field(raw, "data"),
	}
	if s.SuggestedName == "" {
		s.SuggestedName = DefaultSuggestedName
	}
	if s.Category == "" {
		s.Category = DefaultCategory
	}
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		s.Date = ""
	}
	return s, nil
}

// decodeObject strips markdown fences and surrounding prose and decodes the
// first JSON object in text.
func decodeObject(text string) (map[string]interface{}, error) {
	payload := strings.TrimSpace(text)
	if strings.Contains(payload, "```") {
		parts := strings.Split(payload, "```")
		if len(parts) >= 2 {
			payload = strings.TrimSpace(parts[1])
			if len(payload) >= 4 && strings.EqualFold(payload[:4], "json") {
				payload = strings.TrimSpace(payload[4:])
			}
		}
	}
	if start, end := strings.Index(payload, "{"), strings.LastIndex(payload, "}"); start >= 0 && end > start {
		payload = payload[start : end+1]
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return raw, nil
}

// field returns a JSON value as a trimmed string; null and "null" are empty.
func field(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(v)
		if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
