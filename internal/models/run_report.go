package models

import "time"

// DetectionStats counts which sub-extractions succeeded over a run.
type DetectionStats struct {
	DateFound    int `json:"date_found" yaml:"date_found"`
	AccountFound int `json:"account_found" yaml:"account_found"`
	BankDetected int `json:"bank_detected" yaml:"bank_detected"`
	TypeDetected int `json:"type_detected" yaml:"type_detected"`
}

// RunReport aggregates one invocation of the organizer.
// TotalFiles always equals SuccessCount + ErrorCount.
type RunReport struct {
	RunID        string              `json:"run_id" yaml:"run_id"`
	Method       string              `json:"method" yaml:"method"`
	State        string              `json:"state" yaml:"state"`
	Source       string              `json:"source" yaml:"source"`
	Destination  string              `json:"destination" yaml:"destination"`
	TestMode     bool                `json:"test_mode" yaml:"test_mode"`
	TotalFiles   int                 `json:"total_files" yaml:"total_files"`
	SuccessCount int                 `json:"success_count" yaml:"success_count"`
	ErrorCount   int                 `json:"error_count" yaml:"error_count"`
	Outcomes     []ProcessingOutcome `json:"outcomes" yaml:"outcomes"`
	Cancelled    bool                `json:"cancelled" yaml:"cancelled"`
	NothingToDo  bool                `json:"nothing_to_do" yaml:"nothing_to_do"`
	Message      string              `json:"message,omitempty" yaml:"message,omitempty"`
	Stats        DetectionStats      `json:"stats" yaml:"stats"`
	Categories   map[Category]int    `json:"categories,omitempty" yaml:"categories,omitempty"`
	Banks        map[string]int      `json:"banks,omitempty" yaml:"banks,omitempty"`
	AccountTypes map[string]int      `json:"account_types,omitempty" yaml:"account_types,omitempty"`
	StartedAt    time.Time           `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time           `json:"finished_at" yaml:"finished_at"`
}

// NewRunReport creates an empty report in the idle state.
func NewRunReport(runID, method, source, destination string, testMode bool, now time.Time) *RunReport {
	return &RunReport{
		RunID:        runID,
		Method:       method,
		State:        StateIdle,
		Source:       source,
		Destination:  destination,
		TestMode:     testMode,
		Outcomes:     []ProcessingOutcome{},
		Categories:   map[Category]int{},
		Banks:        map[string]int{},
		AccountTypes: map[string]int{},
		StartedAt:    now,
	}
}

// Record appends an outcome and updates the counters.
func (r *RunReport) Record(o ProcessingOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.TotalFiles++
	if !o.IsSuccess() {
		r.ErrorCount++
		return
	}

	r.SuccessCount++
	r.Stats.DateFound++
	r.Stats.AccountFound++
	if o.Classification == nil {
		return
	}
	r.Categories[o.Classification.Category]++
	if o.Classification.HasBank() {
		r.Stats.BankDetected++
		r.Banks[o.Classification.Bank]++
	}
	if o.Classification.HasAccountType() {
		r.Stats.TypeDetected++
		r.AccountTypes[o.Classification.AccountType.Label()]++
	}
}

// Finish closes the report with the given terminal state.
func (r *RunReport) Finish(state string, now time.Time) {
	r.State = state
	r.Cancelled = state == StateCancelled
	r.FinishedAt = now
}
