package models

import (
	"github.com/shopspring/decimal"
)

const (
	ShareUnpaid = "unpaid"
	SharePaid   = "paid"
)

type ExpenseShare struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	ExpenseID   int             `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	ShareAmount decimal.Decimal `json:"share_amount,omitempty" db:"share_amount,omitempty"`
	Status      string          `json:"status,omitempty" db:"status,omitempty"`
}
