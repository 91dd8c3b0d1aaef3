package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harroway/housemate/internal/model"
)

type BillStore struct {
	db *sql.DB
}

func NewBillStore(db *sql.DB) *BillStore {
	return &BillStore{db: db}
}

func scanBill(scanner interface{ Scan(...any) error }) (*model.Bill, error) {
	var b model.Bill
	err := scanner.Scan(
		&b.ID, &b.HouseID, &b.Title, &b.Description, &b.Amount, &b.Category,
		&b.CreatedBy, &b.DueDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const billCols = `id, house_id, title, description, amount, category, created_by, due_date, created_at, updated_at`

// Create inserts the bill and then one share row per user in splitAmong.
// The insert and the share rows are separate statements; a failed share
// leaves the bill in place with the shares written so far.
func (s *BillStore) Create(houseID int64, title, description string, amount float64, category string, dueDate time.Time, createdBy int64, splitAmong []int64) (*model.Bill, error) {
	result, err := s.db.Exec(
		`INSERT INTO bills (house_id, title, description, amount, category, created_by, due_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		houseID, title, description, amount, category, createdBy, dueDate.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if len(splitAmong) > 0 {
		perShare := amount / float64(len(splitAmong))
		for _, userID := range splitAmong {
			_, err := s.db.Exec(
				`INSERT INTO bill_shares (bill_id, user_id, amount) VALUES (?, ?, ?)`,
				id, userID, perShare,
			)
			if err != nil {
				return nil, fmt.Errorf("insert bill share: %w", err)
			}
		}
	}

	return s.GetByID(id)
}

func (s *BillStore) GetByID(id int64) (*model.Bill, error) {
	row := s.db.QueryRow(`SELECT `+billCols+` FROM bills WHERE id = ?`, id)
	b, err := scanBill(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (s *BillStore) ListByHouse(houseID int64) ([]model.Bill, error) {
	rows, err := s.db.Query(
		`SELECT `+billCols+` FROM bills WHERE house_id = ? ORDER BY due_date ASC, id ASC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

func (s *BillStore) Update(id int64, title, description string, amount float64, category string, dueDate time.Time) (*model.Bill, error) {
	_, err := s.db.Exec(
		`UPDATE bills SET title = ?, description = ?, amount = ?, category = ?, due_date = ?, updated_at = datetime('now') WHERE id = ?`,
		title, description, amount, category, dueDate.UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update bill: %w", err)
	}
	return s.GetByID(id)
}

func (s *BillStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

func (s *BillStore) ListShares(billID int64) ([]model.BillShare, error) {
	rows, err := s.db.Query(
		`SELECT id, bill_id, user_id, amount, created_at FROM bill_shares WHERE bill_id = ? ORDER BY id ASC`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bill shares: %w", err)
	}
	defer rows.Close()

	var shares []model.BillShare
	for rows.Next() {
		var sh model.BillShare
		if err := rows.Scan(&sh.ID, &sh.BillID, &sh.UserID, &sh.Amount, &sh.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bill share: %w", err)
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

func (s *BillStore) CountShares(billID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM bill_shares WHERE bill_id = ?`, billID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bill shares: %w", err)
	}
	return n, nil
}

func (s *BillStore) RecordPayment(billID, userID int64, amount float64, paidAt time.Time) (*model.BillPayment, error) {
	result, err := s.db.Exec(
		`INSERT INTO bill_payments (bill_id, user_id, amount, paid_at) VALUES (?, ?, ?, ?)`,
		billID, userID, amount, paidAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert bill payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT id, bill_id, user_id, amount, paid_at FROM bill_payments WHERE id = ?`, id)
	var p model.BillPayment
	if err := row.Scan(&p.ID, &p.BillID, &p.UserID, &p.Amount, &p.PaidAt); err != nil {
		return nil, fmt.Errorf("get bill payment: %w", err)
	}
	return &p, nil
}

func (s *BillStore) ListPayments(billID int64) ([]model.BillPayment, error) {
	rows, err := s.db.Query(
		`SELECT id, bill_id, user_id, amount, paid_at FROM bill_payments WHERE bill_id = ? ORDER BY paid_at DESC, id DESC`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bill payments: %w", err)
	}
	defer rows.Close()

	var payments []model.BillPayment
	for rows.Next() {
		var p model.BillPayment
		if err := rows.Scan(&p.ID, &p.BillID, &p.UserID, &p.Amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scan bill payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *BillStore) TotalPaid(billID int64) (float64, error) {
	var total float64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM bill_payments WHERE bill_id = ?`,
		billID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total paid: %w", err)
	}
	return total, nil
}

// ListDueBetween returns bills whose due date falls inside [from, to),
// used by the reminder scheduler.
func (s *BillStore) ListDueBetween(from, to time.Time) ([]model.Bill, error) {
	rows, err := s.db.Query(
		`SELECT `+billCols+` FROM bills WHERE due_date >= ? AND due_date < ? ORDER BY due_date ASC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}
