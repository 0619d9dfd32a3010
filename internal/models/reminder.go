package models

import "time"

// Reminder is a dated note the user wants surfaced before it is due.
type Reminder struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	Note         string     `json:"note,omitempty" yaml:"note,omitempty"`
	DueDate      time.Time  `json:"due_date" yaml:"due_date"`
	Dismissed    bool       `json:"dismissed" yaml:"dismissed"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty" yaml:"snoozed_until,omitempty"`
}

// IsSnoozed reports whether the reminder is hidden on the given day.
func (r Reminder) IsSnoozed(now time.Time) bool {
	return r.SnoozedUntil != nil && truncateDay(now).Before(truncateDay(*r.SnoozedUntil))
}
