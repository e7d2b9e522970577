package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	GroupID     int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	Title       string          `json:"title,omitempty" db:"title,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount,omitempty" db:"total_amount,omitempty"`
	Category    string          `json:"category,omitempty" db:"category,omitempty"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	PaidBy      sql.NullInt64   `json:"paid_by,omitempty" db:"paid_by,omitempty"`
}
