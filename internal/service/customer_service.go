package service

import (
	appErrors "github.com/wrenchworks/repairshop-backend/internal/errors"
	"github.com/wrenchworks/repairshop-backend/internal/model"
	"github.com/wrenchworks/repairshop-backend/internal/repository"
	"github.com/wrenchworks/repairshop-backend/internal/schema"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
}

// CustomerDetails is a customer plus the completion stats of its tickets
type CustomerDetails struct {
	Customer *model.Customer `json:"customer"`
	Stats    map[string]int  `json:"stats"`
}

// ListCustomers fetches customers with pagination
func (s *CustomerService) ListCustomers(page, pageSize int, active *bool, search string) ([]model.Customer, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CustomerRepo.List(offset, pageSize, active, search)
	if err != nil {
		return nil, nil, err
	}

	customers := make([]model.Customer, len(ptrs))
	for i, c := range ptrs {
		customers[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return customers, pagination, nil
}

// GetCustomerDetails fetches a customer with its ticket stats; a nil result
// means not found
func (s *CustomerService) GetCustomerDetails(id int) (*CustomerDetails, error) {
	customer, err := s.CustomerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, nil
	}

	stats, err := s.CustomerRepo.TicketStats(id)
	if err != nil {
		return nil, err
	}

	return &CustomerDetails{Customer: customer, Stats: stats}, nil
}

// SaveCustomer validates the submitted values and creates or updates the
// customer. Validation failures come back as a field-keyed map, never as an
// error.
func (s *CustomerService) SaveCustomer(v schema.Values) (*model.Customer, schema.Errors, error) {
	if errs := schema.Customers.ValidateInsert(v); errs != nil {
		return nil, errs, nil
	}

	c := schema.BindCustomer(v)
	if c.ID > 0 {
		existing, err := s.CustomerRepo.GetByID(c.ID)
		if err != nil {
			return nil, nil, err
		}
		if existing == nil {
			return nil, nil, appErrors.NewCustomerNotFound(c.ID)
		}
		c.CreatedAt = existing.CreatedAt
		if err := s.CustomerRepo.Update(c); err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	}

	if err := s.CustomerRepo.Create(c); err != nil {
		return nil, nil, err
	}
	return c, nil, nil
}

// CustomerForm decides the form presentation for an optional customer id
func (s *CustomerService) CustomerForm(id *int) (*FormState, error) {
	if id == nil {
		return &FormState{Mode: ModeCreate, Values: schema.Customers.Defaults()}, nil
	}

	customer, err := s.CustomerRepo.GetByID(*id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return &FormState{Mode: ModeNotFound}, nil
	}

	return &FormState{
		Mode:   ModeEdit,
		Values: schema.Customers.Prefill(schema.CustomerValues(customer)),
	}, nil
}
