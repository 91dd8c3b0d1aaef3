package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harroway/housemate/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var houseID sql.NullInt64
	var lastLogin sql.NullTime

	err := scanner.Scan(
		&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.Bio, &u.Phone,
		&u.PreferredContact, &u.Avatar, &houseID, &u.Role, &u.Status,
		&lastLogin, &u.ShowContactInfo, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if houseID.Valid {
		u.HouseID = &houseID.Int64
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

const userCols = `id, name, surname, email, password_hash, bio, phone, preferred_contact, avatar, house_id, role, status, last_login, show_contact_info, created_at, updated_at`

func (s *UserStore) Create(name, surname, email, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (name, surname, email, password_hash) VALUES (?, ?, ?, ?)`,
		name, surname, email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) EmailExists(email string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

// UpdateField sets a single profile column. The profile endpoints are one
// endpoint per field, so updates arrive here one column at a time.
func (s *UserStore) UpdateField(id int64, column string, value any) (*model.User, error) {
	switch column {
	case "name", "surname", "email", "bio", "phone", "preferred_contact", "avatar", "show_contact_info", "role", "status":
	default:
		return nil, fmt.Errorf("update user field: unknown column %q", column)
	}

	_, err := s.db.Exec(
		`UPDATE users SET `+column+` = ?, updated_at = datetime('now') WHERE id = ?`,
		value, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", column, err)
	}
	return s.GetByID(id)
}

func (s *UserStore) SetHouse(id int64, houseID *int64) error {
	var hid sql.NullInt64
	if houseID != nil {
		hid = sql.NullInt64{Int64: *houseID, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE users SET house_id = ?, updated_at = datetime('now') WHERE id = ?`,
		hid, id,
	)
	if err != nil {
		return fmt.Errorf("set user house: %w", err)
	}
	return nil
}

func (s *UserStore) RecordLogin(id int64, at time.Time) error {
	_, err := s.db.Exec(`UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// ListByHouse returns every housemate: users whose house_id matches, plus
// the house creator even if their house_id points elsewhere.
func (s *UserStore) ListByHouse(houseID int64) ([]model.User, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT u.id, u.name, u.surname, u.email, u.password_hash, u.bio, u.phone,
		        u.preferred_contact, u.avatar, u.house_id, u.role, u.status,
		        u.last_login, u.show_contact_info, u.created_at, u.updated_at
		 FROM users u
		 LEFT JOIN houses h ON h.id = ? AND h.created_by = u.id
		 WHERE u.house_id = ? OR h.id IS NOT NULL
		 ORDER BY u.name ASC, u.surname ASC`,
		houseID, houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list housemates: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
