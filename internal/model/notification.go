package model

import "time"

type Notification struct {
	ID              int       `db:"id" json:"id"`
	TicketID        int       `db:"ticket_id" json:"ticket_id"`
	Status          string    `db:"status" json:"status"` // pending, sent, failed
	RenderedContent string    `db:"rendered_content" json:"rendered_content"`
	LastError       string    `db:"last_error" json:"last_error,omitempty"`
	RetryCount      int       `db:"retry_count" json:"retry_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
