package logging

// Standardized field names for structured logging.
const (
	FieldMerchant      = "merchant"
	FieldNormalized    = "normalized_merchant"
	FieldCategory      = "category"
	FieldConfidence    = "confidence"
	FieldStrategy      = "strategy"
	FieldSimilarity    = "similarity"
	FieldTransactionID = "transaction_id"
	FieldAnomalyID     = "anomaly_id"
	FieldBudgetID      = "budget_id"
	FieldGoalID        = "goal_id"
	FieldReminderID    = "reminder_id"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldCount         = "count"
	FieldWindowDays    = "window_days"
	FieldInputFile     = "input_file"
	FieldBackend       = "backend"
)
