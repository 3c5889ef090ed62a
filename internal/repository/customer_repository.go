package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	appErrors "github.com/wrenchworks/repairshop-backend/internal/errors"
	"github.com/wrenchworks/repairshop-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by services
type CustomerRepositoryInterface interface {
	GetByID(id int) (*model.Customer, error)
	GetByEmail(email string) (*model.Customer, error)
	List(offset, limit int, active *bool, search string) ([]*model.Customer, int, error)
	Create(c *model.Customer) error
	Update(c *model.Customer) error
	TicketStats(customerID int) (map[string]int, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, first_name, last_name, email, phone, address1, address2, city, state, zip, notes, active, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address1, &c.Address2, &c.City, &c.State, &c.Zip,
		&c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a customer by ID; absence is a value, not an error
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) GetByEmail(email string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	c, err := scanCustomer(r.DB.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// List fetches customers with optional active filter and name/email search
func (r *CustomerRepository) List(offset, limit int, active *bool, search string) ([]*model.Customer, int, error) {
	customers := []*model.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if active != nil {
		query += fmt.Sprintf(" AND active=$%d", argPos)
		args = append(args, *active)
		argPos++
	}
	if search != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos)
		args = append(args, "%"+search+"%")
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
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}

	countQuery := `SELECT COUNT(*) FROM customers WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if active != nil {
		countQuery += fmt.Sprintf(" AND active=$%d", argPosCount)
		argsCount = append(argsCount, *active)
		argPosCount++
	}
	if search != "" {
		countQuery += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argPosCount, argPosCount, argPosCount)
		argsCount = append(argsCount, "%"+search+"%")
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *CustomerRepository) Create(c *model.Customer) error {
	query := `
        INSERT INTO customers (first_name, last_name, email, phone, address1, address2, city, state, zip, notes, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.DB.QueryRow(query,
		c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address1, c.Address2, c.City, c.State, c.Zip,
		c.Notes, c.Active,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewDuplicateEmail(c.Email)
	}
	return err
}

// Update rewrites every mutable column; updated_at refreshes on every write
func (r *CustomerRepository) Update(c *model.Customer) error {
	query := `
        UPDATE customers
        SET first_name=$1, last_name=$2, email=$3, phone=$4, address1=$5, address2=$6,
            city=$7, state=$8, zip=$9, notes=$10, active=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at
    `
	err := r.DB.QueryRow(query,
		c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address1, c.Address2, c.City, c.State, c.Zip,
		c.Notes, c.Active, c.ID,
	).Scan(&c.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewDuplicateEmail(c.Email)
	}
	if err == sql.ErrNoRows {
		return appErrors.NewCustomerNotFound(c.ID)
	}
	return err
}

// TicketStats counts a customer's tickets grouped by completion
func (r *CustomerRepository) TicketStats(customerID int) (map[string]int, error) {
	query := `SELECT completed, COUNT(*) FROM tickets WHERE customer_id=$1 GROUP BY completed`
	rows, err := r.DB.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"total": 0, "open": 0, "completed": 0}
	for rows.Next() {
		var completed bool
		var count int
		if err := rows.Scan(&completed, &count); err != nil {
			return nil, err
		}
		if completed {
			stats["completed"] = count
		} else {
			stats["open"] = count
		}
		stats["total"] += count
	}
	return stats, nil
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
