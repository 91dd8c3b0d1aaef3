package task

import (
	"strconv"
	"time"

	"github.com/harroway/housemate/internal/model"
)

// Update is a sparse task update. Nil fields were absent from the request
// and are left untouched; a field is only ever overwritten when the payload
// carries it.
type Update struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	AssignedTo  *int64     `json:"assigned_to"`
	Status      *string    `json:"status"`
}

// FieldChange records one field whose submitted value differs from the
// stored one. Value is what gets persisted; Old and New are the string
// renderings written to the history table.
type FieldChange struct {
	Field string
	Value any
	Old   *string
	New   *string
}

// Diff compares a sparse update against the loaded task and returns one
// change per field whose new value strictly differs, in a fixed field order.
// An empty result means the update is a no-op and nothing should be written.
func Diff(current *model.Task, upd Update) []FieldChange {
	var changes []FieldChange

	addString := func(field, old string, new_ *string) {
		if new_ != nil && *new_ != old {
			changes = append(changes, FieldChange{
				Field: field,
				Value: *new_,
				Old:   strPtr(old),
				New:   strPtr(*new_),
			})
		}
	}

	addString("title", current.Title, upd.Title)
	addString("description", current.Description, upd.Description)
	addString("category", current.Category, upd.Category)
	addString("location", current.Location, upd.Location)

	if upd.DueDate != nil && !equalTime(current.DueDate, upd.DueDate) {
		changes = append(changes, FieldChange{
			Field: "due_date",
			Value: upd.DueDate.UTC(),
			Old:   formatTime(current.DueDate),
			New:   formatTime(upd.DueDate),
		})
	}

	addString("priority", current.Priority, upd.Priority)

	if upd.AssignedTo != nil && *upd.AssignedTo != current.AssignedTo {
		changes = append(changes, FieldChange{
			Field: "assigned_to",
			Value: *upd.AssignedTo,
			Old:   strPtr(strconv.FormatInt(current.AssignedTo, 10)),
			New:   strPtr(strconv.FormatInt(*upd.AssignedTo, 10)),
		})
	}

	addString("status", current.Status, upd.Status)

	return changes
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func strPtr(s string) *string {
	return &s
}
