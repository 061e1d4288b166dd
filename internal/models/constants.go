package models

// Outcome statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Actions taken for a successful outcome
const (
	ActionSimulated = "simulated"
	ActionCopied    = "copied"
)

// Per-file error reasons
const (
	ReasonDateNotFound    = "date not identified"
	ReasonAccountNotFound = "account not identified"
)

// Run methods recorded in the report
const (
	MethodLocal    = "LOCAL"
	MethodAdvanced = "ADVANCED"
	MethodAI       = "AI"
)

// Run states
const (
	StateIdle        = "idle"
	StateEnumerating = "enumerating"
	StateProcessing  = "processing"
	StateCompleted   = "completed"
	StateCancelled   = "cancelled"
)

// File type tags used in standardized names
const (
	TypeTagPDF = "PDF"
	TypeTagOFX = "OFX"
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
