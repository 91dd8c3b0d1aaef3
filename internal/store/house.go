package store

import (
	"database/sql"
	"fmt"

	"github.com/harroway/housemate/internal/model"
)

type HouseStore struct {
	db *sql.DB
}

func NewHouseStore(db *sql.DB) *HouseStore {
	return &HouseStore{db: db}
}

func scanHouse(scanner interface{ Scan(...any) error }) (*model.House, error) {
	var h model.House
	err := scanner.Scan(
		&h.ID, &h.Name, &h.Address, &h.HouseRules, &h.Avatar,
		&h.CreatedBy, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const houseCols = `id, name, address, house_rules, avatar, created_by, created_at, updated_at`

func (s *HouseStore) Create(name, address, houseRules string, createdBy int64) (*model.House, error) {
	result, err := s.db.Exec(
		`INSERT INTO houses (name, address, house_rules, created_by) VALUES (?, ?, ?, ?)`,
		name, address, houseRules, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert house: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseStore) GetByID(id int64) (*model.House, error) {
	row := s.db.QueryRow(`SELECT `+houseCols+` FROM houses WHERE id = ?`, id)
	h, err := scanHouse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get house: %w", err)
	}
	return h, nil
}

func (s *HouseStore) Update(id int64, name, address, houseRules, avatar string) (*model.House, error) {
	_, err := s.db.Exec(
		`UPDATE houses SET name = ?, address = ?, house_rules = ?, avatar = ?, updated_at = datetime('now') WHERE id = ?`,
		name, address, houseRules, avatar, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update house: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM houses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete house: %w", err)
	}
	return nil
}
