package model

import "time"

// Recurrence values for schedule events.
const (
	RecurrenceNone    = ""
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

type ScheduleEvent struct {
	ID            int64     `json:"id"`
	HouseID       int64     `json:"house_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ScheduledDate string    `json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime string    `json:"scheduled_time"` // HH:MM, may be empty
	Recurrence    string    `json:"recurrence"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
