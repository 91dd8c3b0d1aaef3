// Package recurrence expands recurring schedule events into concrete
// occurrence dates for calendar views.
package recurrence

import (
	"sort"
	"time"

	"github.com/harroway/housemate/internal/model"
)

// Occurrence is one concrete date an event falls on within a queried window.
type Occurrence struct {
	EventID int64  `json:"event_id"`
	Date    string `json:"date"` // YYYY-MM-DD
}

const dateLayout = "2006-01-02"

// maxOccurrences caps expansion so a wide window with a daily event cannot
// produce an unbounded response.
const maxOccurrences = 400

// Expand lists the dates the event occurs on within [from, to], inclusive.
// A non-recurring event yields its scheduled date if it falls in the window.
// Events with an unparseable date yield nothing.
func Expand(ev *model.ScheduleEvent, from, to time.Time) []Occurrence {
	start, err := time.Parse(dateLayout, ev.ScheduledDate)
	if err != nil {
		return nil
	}
	from = truncate(from)
	to = truncate(to)
	if to.Before(from) {
		return nil
	}

	var out []Occurrence
	cur := start
	for i := 0; i < maxOccurrences; i++ {
		if cur.After(to) {
			break
		}
		if !cur.Before(from) {
			out = append(out, Occurrence{EventID: ev.ID, Date: cur.Format(dateLayout)})
		}
		next := advance(cur, start, ev.Recurrence)
		if next.IsZero() {
			break
		}
		cur = next
	}
	return out
}

// ExpandAll expands every event over the window, ordered by date then event.
func ExpandAll(events []model.ScheduleEvent, from, to time.Time) []Occurrence {
	out := make([]Occurrence, 0)
	for i := range events {
		out = append(out, Expand(&events[i], from, to)...)
	}
	sortOccurrences(out)
	return out
}

func advance(cur, start time.Time, recurrence string) time.Time {
	switch recurrence {
	case model.RecurrenceDaily:
		return cur.AddDate(0, 0, 1)
	case model.RecurrenceWeekly:
		return cur.AddDate(0, 0, 7)
	case model.RecurrenceMonthly:
		return nextMonthly(cur, start)
	}
	return time.Time{}
}

// nextMonthly keeps the start's day-of-month, skipping months too short for
// it. A Jan 31 event recurs on Mar 31, not Mar 2.
func nextMonthly(cur, start time.Time) time.Time {
	day := start.Day()
	y, m, _ := cur.Date()
	for i := 1; i <= 12; i++ {
		candidate := time.Date(y, m+time.Month(i), day, 0, 0, 0, 0, cur.Location())
		if candidate.Day() == day {
			return candidate
		}
	}
	return time.Time{}
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sortOccurrences(occ []Occurrence) {
	sort.Slice(occ, func(i, j int) bool {
		if occ[i].Date != occ[j].Date {
			return occ[i].Date < occ[j].Date
		}
		return occ[i].EventID < occ[j].EventID
	})
}
