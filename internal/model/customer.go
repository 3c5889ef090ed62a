package model

import "time"

type Customer struct {
	ID        int       `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address1  string    `db:"address1" json:"address1"`
	Address2  *string   `db:"address2" json:"address2,omitempty"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Zip       string    `db:"zip" json:"zip"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
