package store

import (
	"database/sql"
	"fmt"

	"github.com/harroway/housemate/internal/model"
)

type ScheduleStore struct {
	db *sql.DB
}

func NewScheduleStore(db *sql.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

func scanEvent(scanner interface{ Scan(...any) error }) (*model.ScheduleEvent, error) {
	var e model.ScheduleEvent
	err := scanner.Scan(
		&e.ID, &e.HouseID, &e.Title, &e.Description, &e.ScheduledDate, &e.ScheduledTime,
		&e.Recurrence, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const eventCols = `id, house_id, title, description, scheduled_date, scheduled_time, recurrence, created_by, created_at, updated_at`

func (s *ScheduleStore) Create(houseID int64, title, description, scheduledDate, scheduledTime, recurrence string, createdBy int64) (*model.ScheduleEvent, error) {
	result, err := s.db.Exec(
		`INSERT INTO schedule_events (house_id, title, description, scheduled_date, scheduled_time, recurrence, created_by) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		houseID, title, description, scheduledDate, scheduledTime, recurrence, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ScheduleStore) GetByID(id int64) (*model.ScheduleEvent, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM schedule_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (s *ScheduleStore) ListByHouse(houseID int64) ([]model.ScheduleEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM schedule_events WHERE house_id = ? ORDER BY scheduled_date ASC, scheduled_time ASC, id ASC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.ScheduleEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *ScheduleStore) Update(id int64, title, description, scheduledDate, scheduledTime, recurrence string) (*model.ScheduleEvent, error) {
	_, err := s.db.Exec(
		`UPDATE schedule_events SET title = ?, description = ?, scheduled_date = ?, scheduled_time = ?, recurrence = ?, updated_at = datetime('now') WHERE id = ?`,
		title, description, scheduledDate, scheduledTime, recurrence, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.GetByID(id)
}

func (s *ScheduleStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM schedule_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
