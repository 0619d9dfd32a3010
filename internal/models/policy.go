package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsightPolicy holds the thresholds and windows used by the insights engine.
// It is loaded from the "insights" configuration section.
type InsightPolicy struct {
	MappingSimilarity      float64 `mapstructure:"mapping_similarity" yaml:"mapping_similarity"`
	MappingExactConfidence float64 `mapstructure:"mapping_exact_confidence" yaml:"mapping_exact_confidence"`
	MappingFuzzyWeight     float64 `mapstructure:"mapping_fuzzy_weight" yaml:"mapping_fuzzy_weight"`
	RecurrenceSimilarity   float64 `mapstructure:"recurrence_similarity" yaml:"recurrence_similarity"`
	RecurrenceConfidence   float64 `mapstructure:"recurrence_confidence" yaml:"recurrence_confidence"`
	RecurrenceSampleTarget int     `mapstructure:"recurrence_sample_target" yaml:"recurrence_sample_target"`
	RecentRecurrenceDays   int     `mapstructure:"recent_recurrence_days" yaml:"recent_recurrence_days"`
	RecentRecurrenceMin    int     `mapstructure:"recent_recurrence_min" yaml:"recent_recurrence_min"`
	AnomalyThreshold       float64 `mapstructure:"anomaly_threshold" yaml:"anomaly_threshold"`
	AnomalyScanDays        int     `mapstructure:"anomaly_scan_days" yaml:"anomaly_scan_days"`
	AnomalySnoozeDays      int     `mapstructure:"anomaly_snooze_days" yaml:"anomaly_snooze_days"`
	SavingsWindowDays      int     `mapstructure:"savings_window_days" yaml:"savings_window_days"`
	BehindScheduleRatio    float64 `mapstructure:"behind_schedule_ratio" yaml:"behind_schedule_ratio"`
	DeadlineNudgeDays      int     `mapstructure:"deadline_nudge_days" yaml:"deadline_nudge_days"`
	ReminderSnoozeDays     int     `mapstructure:"reminder_snooze_days" yaml:"reminder_snooze_days"`
	ReminderDueDays        int     `mapstructure:"reminder_due_days" yaml:"reminder_due_days"`
	RulesFile              string  `mapstructure:"rules_file" yaml:"rules_file"`
}

// DefaultInsightPolicy returns the stock thresholds.
func DefaultInsightPolicy() InsightPolicy {
	return InsightPolicy{
		MappingSimilarity:      0.8,
		MappingExactConfidence: 0.98,
		MappingFuzzyWeight:     0.9,
		RecurrenceSimilarity:   0.7,
		RecurrenceConfidence:   0.7,
		RecurrenceSampleTarget: 12,
		RecentRecurrenceDays:   90,
		RecentRecurrenceMin:    2,
		AnomalyThreshold:       1000,
		AnomalyScanDays:        30,
		AnomalySnoozeDays:      7,
		SavingsWindowDays:      90,
		BehindScheduleRatio:    0.20,
		DeadlineNudgeDays:      7,
		ReminderSnoozeDays:     1,
		ReminderDueDays:        3,
	}
}

// Validate checks that ratios are within [0,1] and windows are positive.
func (p InsightPolicy) Validate() error {
	ratios := map[string]float64{
		"mapping_similarity":       p.MappingSimilarity,
		"mapping_exact_confidence": p.MappingExactConfidence,
		"mapping_fuzzy_weight":     p.MappingFuzzyWeight,
		"recurrence_similarity":    p.RecurrenceSimilarity,
		"recurrence_confidence":    p.RecurrenceConfidence,
		"behind_schedule_ratio":    p.BehindScheduleRatio,
	}
	for name, v := range ratios {
		if v < 0 || v > 1 {
			return fmt.Errorf("insights.%s must be between 0 and 1, got %v", name, v)
		}
	}

	windows := map[string]int{
		"recurrence_sample_target": p.RecurrenceSampleTarget,
		"recent_recurrence_days":   p.RecentRecurrenceDays,
		"recent_recurrence_min":    p.RecentRecurrenceMin,
		"anomaly_scan_days":        p.AnomalyScanDays,
		"anomaly_snooze_days":      p.AnomalySnoozeDays,
		"savings_window_days":      p.SavingsWindowDays,
		"reminder_snooze_days":     p.ReminderSnoozeDays,
		"reminder_due_days":        p.ReminderDueDays,
	}
	for name, v := range windows {
		if v <= 0 {
			return fmt.Errorf("insights.%s must be positive, got %d", name, v)
		}
	}

	if p.DeadlineNudgeDays < 0 {
		return fmt.Errorf("insights.deadline_nudge_days must not be negative, got %d", p.DeadlineNudgeDays)
	}
	if p.AnomalyThreshold < 0 {
		return fmt.Errorf("insights.anomaly_threshold must not be negative, got %v", p.AnomalyThreshold)
	}
	return nil
}

// Threshold returns the anomaly threshold as a decimal.
func (p InsightPolicy) Threshold() decimal.Decimal {
	return decimal.NewFromFloat(p.AnomalyThreshold)
}
