package task

import (
	"time"

	"github.com/harroway/housemate/internal/model"
)

// StatusOverdue is the derived display status for a task past its grace
// window. It is never written to the tasks table.
const StatusOverdue = "overdue"

// overdueGrace is how far past its due date a task must be before it reads
// as overdue. A full 24-hour window, not "past midnight of the due date" —
// deliberately looser than the calendar-date rule bills use.
const overdueGrace = 24 * time.Hour

// EffectiveStatus maps a task's stored status and due date to the status
// shown to clients, plus the number of whole days it is overdue.
// A completed task is never overdue regardless of its due date.
func EffectiveStatus(dueDate *time.Time, status string, now time.Time) (string, int) {
	if status == model.TaskStatusCompleted {
		return model.TaskStatusCompleted, 0
	}
	if dueDate == nil {
		return status, 0
	}

	late := now.Sub(*dueDate)
	if late < overdueGrace {
		return status, 0
	}

	days := int(late / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return StatusOverdue, days
}
