package models

import "database/sql"

type User struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	Name      string         `json:"name,omitempty" db:"name,omitempty"`
	Email     string         `json:"email,omitempty" db:"email,omitempty"`
	Phone     string         `json:"phone,omitempty" db:"phone,omitempty"`
	Password  sql.NullString `json:"-" db:"password,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
