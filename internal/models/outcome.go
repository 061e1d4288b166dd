package models

// ProcessingOutcome is the result of processing one FileRecord. It is appended
// to the run report once and not modified afterwards.
type ProcessingOutcome struct {
	File            FileRecord            `json:"file" yaml:"file"`
	Status          string                `json:"status" yaml:"status"`
	DestinationPath string                `json:"destination_path,omitempty" yaml:"destination_path,omitempty"`
	Structure       string                `json:"structure,omitempty" yaml:"structure,omitempty"`
	ErrorReason     string                `json:"error_reason,omitempty" yaml:"error_reason,omitempty"`
	ActionTaken     string                `json:"action_taken,omitempty" yaml:"action_taken,omitempty"`
	Date            DateResult            `json:"date" yaml:"date"`
	Account         AccountResult         `json:"account" yaml:"account"`
	Classification  *ClassificationRecord `json:"classification,omitempty" yaml:"classification,omitempty"`
	HeuristicUsed   bool                  `json:"heuristic_used" yaml:"heuristic_used"`
	ClassifierUsed  bool                  `json:"classifier_used" yaml:"classifier_used"`
	PlaceholderUsed bool                  `json:"placeholder_used" yaml:"placeholder_used"`
}

// IsSuccess reports whether the outcome status is success.
func (o ProcessingOutcome) IsSuccess() bool {
	return o.Status == StatusSuccess
}

// NewErrorOutcome builds an error outcome with the given reason.
func NewErrorOutcome(file FileRecord, reason string) ProcessingOutcome {
	return ProcessingOutcome{
		File:        file,
		Status:      StatusError,
		ErrorReason: reason,
	}
}
