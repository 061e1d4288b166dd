package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldDestination = "destination"
	FieldAccount     = "account"
	FieldDate        = "date"
	FieldMethod      = "method"
	FieldBank        = "bank"
	FieldCategory    = "category"
	FieldScore       = "score"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldRunID       = "run_id"
	FieldProvider    = "provider"
	FieldCount       = "count"
	FieldDuration    = "duration_ms"
	FieldOutputFile  = "output_file"
)
