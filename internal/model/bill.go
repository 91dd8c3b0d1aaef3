package model

import "time"

type Bill struct {
	ID          int64     `json:"id"`
	HouseID     int64     `json:"house_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	CreatedBy   int64     `json:"created_by"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BillShare is one housemate's portion of a bill's total amount.
type BillShare struct {
	ID        int64     `json:"id"`
	BillID    int64     `json:"bill_id"`
	UserID    int64     `json:"user_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type BillPayment struct {
	ID     int64     `json:"id"`
	BillID int64     `json:"bill_id"`
	UserID int64     `json:"user_id"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
}
