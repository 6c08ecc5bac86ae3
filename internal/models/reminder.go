package models

import "time"

// ReminderSettings is the per-user reminder preference blob. It is kept in
// Redis so the UI reads it without an upstream round trip, and pushed to the
// backend profile on every change.
type ReminderSettings struct {
	UserID          string    `json:"user_id"`
	Enabled         bool      `json:"enabled"`
	IntervalMinutes int       `json:"interval_minutes"`
	QuietHoursStart int       `json:"quiet_hours_start"`
	QuietHoursEnd   int       `json:"quiet_hours_end"`
	Channels        []string  `json:"channels"`
	UpdatedAt       time.Time `json:"updated_at"`
}
