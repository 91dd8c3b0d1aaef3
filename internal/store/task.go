package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/task"
)

type TaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTaskStore(db *sql.DB, logger *slog.Logger) *TaskStore {
	return &TaskStore{db: db, logger: logger}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var dueDate sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.HouseID, &t.Title, &t.Description, &t.Category, &t.Location,
		&dueDate, &t.Priority, &t.AssignedTo, &t.CreatedBy, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return &t, nil
}

const taskCols = `id, house_id, title, description, category, location, due_date, priority, assigned_to, created_by, status, created_at, updated_at`

// Create inserts a task and appends the task_created history entry. The
// history write is best effort: if it fails the task still stands and the
// failure is only logged.
func (s *TaskStore) Create(houseID int64, title, description, category, location string, dueDate *time.Time, priority string, assignedTo, createdBy int64) (*model.Task, error) {
	var due sql.NullTime
	if dueDate != nil {
		due = sql.NullTime{Time: dueDate.UTC(), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (house_id, title, description, category, location, due_date, priority, assigned_to, created_by, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		houseID, title, description, category, location, due, priority, assignedTo, createdBy, model.TaskStatusOpen,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	created := model.TaskStatusOpen
	if err := s.insertHistory(id, &createdBy, model.HistoryTaskCreated, nil, &created); err != nil {
		s.logger.Error("task created but history write failed", "task_id", id, "error", err)
	}

	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListByHouse(houseID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE house_id = ? ORDER BY created_at DESC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) ListByAssignee(userID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE assigned_to = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks by assignee: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ApplyUpdate persists a precomputed set of field changes in one UPDATE,
// stamping updated_at, then appends one history row per changed field. All
// history rows carry the same changed_by; their writes are best effort and
// never fail the update. An empty change set performs no writes.
func (s *TaskStore) ApplyUpdate(id int64, changes []task.FieldChange, changedBy int64) (*model.Task, error) {
	if len(changes) == 0 {
		return s.GetByID(id)
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	for _, c := range changes {
		sets = append(sets, c.Field+" = ?")
		args = append(args, c.Value)
	}
	sets = append(sets, "updated_at = datetime('now')")
	args = append(args, id)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	for _, c := range changes {
		if err := s.insertHistory(id, &changedBy, c.Field, c.Old, c.New); err != nil {
			s.logger.Error("task updated but history write failed",
				"task_id", id, "field", c.Field, "error", err)
		}
	}

	return s.GetByID(id)
}

// Delete writes the task_deleted history row first, then removes the task.
// A delete failure after the history write leaves both the task and a stale
// "deleted" entry; the two writes are deliberately not atomic.
func (s *TaskStore) Delete(id, deletedBy int64) error {
	oldVal, newVal := "active", "deleted"
	if err := s.insertHistory(id, &deletedBy, model.HistoryTaskDeleted, &oldVal, &newVal); err != nil {
		s.logger.Error("task delete history write failed", "task_id", id, "error", err)
	}

	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskStore) insertHistory(taskID int64, changedBy *int64, field string, oldValue, newValue *string) error {
	var by sql.NullInt64
	if changedBy != nil {
		by = sql.NullInt64{Int64: *changedBy, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO task_history (task_id, changed_by, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?)`,
		taskID, by, field, nullString(oldValue), nullString(newValue),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func scanHistory(scanner interface{ Scan(...any) error }) (*model.TaskHistory, error) {
	var h model.TaskHistory
	var changedBy sql.NullInt64
	var oldValue, newValue sql.NullString

	err := scanner.Scan(&h.ID, &h.TaskID, &changedBy, &h.FieldName, &oldValue, &newValue, &h.ChangedAt)
	if err != nil {
		return nil, err
	}

	if changedBy.Valid {
		h.ChangedBy = &changedBy.Int64
	}
	if oldValue.Valid {
		h.OldValue = &oldValue.String
	}
	if newValue.Valid {
		h.NewValue = &newValue.String
	}
	return &h, nil
}

const historyCols = `id, task_id, changed_by, field_name, old_value, new_value, changed_at`

func (s *TaskStore) ListHistory(taskID int64) ([]model.TaskHistory, error) {
	rows, err := s.db.Query(
		`SELECT `+historyCols+` FROM task_history WHERE task_id = ? ORDER BY changed_at DESC, id DESC`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []model.TaskHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, *h)
	}
	return entries, rows.Err()
}

// ListHouseActivity returns the newest history entries across all of a
// house's tasks, bounded by limit.
func (s *TaskStore) ListHouseActivity(houseID int64, limit int) ([]model.TaskHistory, error) {
	rows, err := s.db.Query(
		`SELECT h.id, h.task_id, h.changed_by, h.field_name, h.old_value, h.new_value, h.changed_at
		 FROM task_history h
		 JOIN tasks t ON t.id = h.task_id
		 WHERE t.house_id = ?
		 ORDER BY h.changed_at DESC, h.id DESC
		 LIMIT ?`,
		houseID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list house activity: %w", err)
	}
	defer rows.Close()

	var entries []model.TaskHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, *h)
	}
	return entries, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
