package appErrors

import "fmt"

// ErrCustomerNotFound is a sentinel error
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// ErrTicketNotFound is a sentinel error
type ErrTicketNotFound struct {
	TicketID int
}

func (e *ErrTicketNotFound) Error() string {
	return fmt.Sprintf("ticket with ID %d not found", e.TicketID)
}

func NewTicketNotFound(id int) error {
	return &ErrTicketNotFound{TicketID: id}
}

// ErrDuplicateEmail signals a unique violation on customers.email
type ErrDuplicateEmail struct {
	Email string
}

func (e *ErrDuplicateEmail) Error() string {
	return fmt.Sprintf("customer with email %s already exists", e.Email)
}

func NewDuplicateEmail(email string) error {
	return &ErrDuplicateEmail{Email: email}
}
