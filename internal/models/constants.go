package models

// Categories produced by the built-in keyword rules.
const (
	CategoryTransport     = "Transport"
	CategoryFoodAndDrink  = "Food & Drink"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryRent          = "Rent"
	CategoryUtilities     = "Utilities"
	CategorySalary        = "Salary"
	CategoryGroceries     = "Groceries"
)

// Explanations attached to classification results.
const (
	ExplanationUserMapping  = "user-corrected mapping"
	ExplanationGeneric      = "generic fallback"
	ExplanationNoPrediction = "no prediction"
)

// Strategy names reported with a classification.
const (
	StrategyMapping = "Mapping"
	StrategyKeyword = "Keyword"
	StrategyNone    = "None"
)

// AnomalyScanMessage is the message stored on records created by a scan.
const AnomalyScanMessage = "Automatic anomaly detection"

// Goal progress messages.
const (
	GoalMessageCompleted     = "Goal reached. Great job!"
	GoalMessageBehindFormat  = "You're behind schedule by %.1f%% - consider increasing contributions."
	GoalMessageDeadlineNear  = "Deadline is within a week - consider increasing contributions."
	GoalMessageEncouragement = "Keep going! You're making progress."
)

// File permissions
const (
	PermissionDataFile  = 0600
	PermissionDirectory = 0750
)
