package models

type Group struct {
	ID      int    `json:"id,omitempty" db:"id,omitempty"`
	Name    string `json:"name,omitempty" db:"name,omitempty"`
	AdminID int    `json:"admin_id,omitempty" db:"admin_id,omitempty"`
}
