package models

// CategoryMerge refiles every record under Source to Target.
type CategoryMerge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// CategoryMergeResult counts the records a merge refiled. BudgetsDropped are
// source budgets removed because the target already had one for that period.
type CategoryMergeResult struct {
	Source         string `json:"source"`
	Target         string `json:"target"`
	Transactions   int    `json:"transactions"`
	Mappings       int    `json:"mappings"`
	RecurringTags  int    `json:"recurring_tags"`
	Anomalies      int    `json:"anomalies"`
	Budgets        int    `json:"budgets"`
	BudgetsDropped int    `json:"budgets_dropped"`
}

// Total is the number of records changed or removed.
func (r CategoryMergeResult) Total() int {
	return r.Transactions + r.Mappings + r.RecurringTags + r.Anomalies + r.Budgets + r.BudgetsDropped
}
