package model

import "time"

// Task categories.
const (
	CategoryCleaning     = "cleaning"
	CategoryBillsPayment = "bills_payments"
	CategoryShopping     = "shopping"
	CategoryMaintenance  = "maintenance"
	CategoryOther        = "other"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Stored task statuses. "overdue" is never persisted; it is derived at
// read time from the due date (see the task package).
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID          int64      `json:"id"`
	HouseID     int64      `json:"house_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	AssignedTo  int64      `json:"assigned_to"`
	CreatedBy   int64      `json:"created_by"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskHistory is one append-only audit record: a single field's old and new
// value for one task change event. Rows are never updated or deleted.
type TaskHistory struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	ChangedBy *int64    `json:"changed_by"`
	FieldName string    `json:"field_name"`
	OldValue  *string   `json:"old_value"`
	NewValue  *string   `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
}

// Synthetic field names used for lifecycle history entries.
const (
	HistoryTaskCreated = "task_created"
	HistoryTaskDeleted = "task_deleted"
)
