package repository

import (
	"database/sql"

	"github.com/wrenchworks/repairshop-backend/internal/model"
)

type NotificationRepositoryInterface interface {
	CreateForTicket(ticketID int) (*model.Notification, error)
	GetByTicket(ticketID int) (*model.Notification, error)
	GetByID(id int) (*model.Notification, error)
	UpdateStatus(id int, status, lastError string) error
	UpdateContent(id int, content string) error
}

type NotificationRepository struct {
	DB *sql.DB
}

const notificationColumns = `id, ticket_id, status, rendered_content, last_error, retry_count, created_at, updated_at`

func scanNotification(row interface{ Scan(...any) error }) (*model.Notification, error) {
	var n model.Notification
	err := row.Scan(
		&n.ID, &n.TicketID, &n.Status, &n.RenderedContent,
		&n.LastError, &n.RetryCount, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateForTicket is idempotent: completing a ticket twice reuses the
// existing notification instead of queueing a second one.
func (r *NotificationRepository) CreateForTicket(ticketID int) (*model.Notification, error) {
	existing, err := r.GetByTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	query := `
        INSERT INTO notifications (ticket_id, status, rendered_content, last_error, retry_count, created_at, updated_at)
        VALUES ($1, 'pending', '', '', 0, NOW(), NOW())
        RETURNING ` + notificationColumns + `
    `
	return scanNotification(r.DB.QueryRow(query, ticketID))
}

func (r *NotificationRepository) GetByTicket(ticketID int) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE ticket_id=$1`
	n, err := scanNotification(r.DB.QueryRow(query, ticketID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) GetByID(id int) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id=$1`
	n, err := scanNotification(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) UpdateStatus(id int, status, lastError string) error {
	query := `UPDATE notifications SET status=$1, last_error=$2, retry_count=retry_count+1, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, status, lastError, id)
	return err
}

func (r *NotificationRepository) UpdateContent(id int, content string) error {
	query := `UPDATE notifications SET rendered_content=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, content, id)
	return err
}

var _ NotificationRepositoryInterface = (*NotificationRepository)(nil)
