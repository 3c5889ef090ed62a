package repository

import (
	"database/sql"
	"fmt"

	appErrors "github.com/wrenchworks/repairshop-backend/internal/errors"
	"github.com/wrenchworks/repairshop-backend/internal/model"
	"github.com/wrenchworks/repairshop-backend/internal/schema"
)

type TicketRepositoryInterface interface {
	GetByID(id int) (*model.Ticket, error)
	List(offset, limit int, customerID int, completed *bool) ([]*model.Ticket, int, error)
	Create(t *model.Ticket) error
	Update(t *model.Ticket) error
	SetCompleted(id int, completed bool) error
}

type TicketRepository struct {
	DB *sql.DB
}

const ticketColumns = `id, customer_id, title, description, completed, tech, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.Title, &t.Description,
		&t.Completed, &t.Tech, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID fetches a ticket by ID; absence is a value, not an error
func (r *TicketRepository) GetByID(id int) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	t, err := scanTicket(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// List fetches tickets with optional customer and completion filters
func (r *TicketRepository) List(offset, limit int, customerID int, completed *bool) ([]*model.Ticket, int, error) {
	tickets := []*model.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if customerID > 0 {
		query += fmt.Sprintf(" AND customer_id=$%d", argPos)
		args = append(args, customerID)
		argPos++
	}
	if completed != nil {
		query += fmt.Sprintf(" AND completed=$%d", argPos)
		args = append(args, *completed)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}

	countQuery := `SELECT COUNT(*) FROM tickets WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if customerID > 0 {
		countQuery += fmt.Sprintf(" AND customer_id=$%d", argPosCount)
		argsCount = append(argsCount, customerID)
		argPosCount++
	}
	if completed != nil {
		countQuery += fmt.Sprintf(" AND completed=$%d", argPosCount)
		argsCount = append(argsCount, *completed)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *TicketRepository) Create(t *model.Ticket) error {
	if t.Tech == "" {
		t.Tech = schema.TechUnassigned
	}
	query := `
        INSERT INTO tickets (customer_id, title, description, completed, tech, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRow(query, t.CustomerID, t.Title, t.Description, t.Completed, t.Tech).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update rewrites every mutable column; updated_at refreshes on every write
func (r *TicketRepository) Update(t *model.Ticket) error {
	query := `
        UPDATE tickets
        SET customer_id=$1, title=$2, description=$3, completed=$4, tech=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at
    `
	err := r.DB.QueryRow(query, t.CustomerID, t.Title, t.Description, t.Completed, t.Tech, t.ID).
		Scan(&t.UpdatedAt)
	if err == sql.ErrNoRows {
		return appErrors.NewTicketNotFound(t.ID)
	}
	return err
}

func (r *TicketRepository) SetCompleted(id int, completed bool) error {
	query := `UPDATE tickets SET completed=$1, updated_at=NOW() WHERE id=$2`
	res, err := r.DB.Exec(query, completed, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewTicketNotFound(id)
	}
	return nil
}

var _ TicketRepositoryInterface = (*TicketRepository)(nil)
