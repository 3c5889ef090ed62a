package service

import (
	appErrors "github.com/wrenchworks/repairshop-backend/internal/errors"
	"github.com/wrenchworks/repairshop-backend/internal/model"
	"github.com/wrenchworks/repairshop-backend/internal/queue"
	"github.com/wrenchworks/repairshop-backend/internal/repository"
	"github.com/wrenchworks/repairshop-backend/internal/schema"
)

type TicketService struct {
	TicketRepo       repository.TicketRepositoryInterface
	CustomerRepo     repository.CustomerRepositoryInterface
	NotificationRepo repository.NotificationRepositoryInterface
	Queue            queue.Queue
	Topic            string
}

// CompleteTicketResult reports what completing a ticket queued
type CompleteTicketResult struct {
	TicketID       int    `json:"ticket_id"`
	NotificationID int    `json:"notification_id"`
	Status         string `json:"status"`
}

// ListTickets fetches tickets with pagination
func (s *TicketService) ListTickets(page, pageSize, customerID int, completed *bool) ([]model.Ticket, map[string]int, error) {
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

	ptrs, total, err := s.TicketRepo.List(offset, pageSize, customerID, completed)
	if err != nil {
		return nil, nil, err
	}

	tickets := make([]model.Ticket, len(ptrs))
	for i, t := range ptrs {
		tickets[i] = *t
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return tickets, pagination, nil
}

// GetTicket fetches a ticket by ID; a nil result means not found
func (s *TicketService) GetTicket(id int) (*model.Ticket, error) {
	return s.TicketRepo.GetByID(id)
}

// SaveTicket validates the submitted values and creates or updates the
// ticket. Every ticket must reference an existing customer; a dangling
// reference is a field error, not an internal failure.
func (s *TicketService) SaveTicket(v schema.Values) (*model.Ticket, schema.Errors, error) {
	if errs := schema.Tickets.ValidateInsert(v); errs != nil {
		return nil, errs, nil
	}

	t := schema.BindTicket(v)

	customer, err := s.CustomerRepo.GetByID(t.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, schema.Errors{"customer_id": "Customer not found"}, nil
	}

	if t.ID > 0 {
		existing, err := s.TicketRepo.GetByID(t.ID)
		if err != nil {
			return nil, nil, err
		}
		if existing == nil {
			return nil, nil, appErrors.NewTicketNotFound(t.ID)
		}
		t.CreatedAt = existing.CreatedAt
		if err := s.TicketRepo.Update(t); err != nil {
			return nil, nil, err
		}
		return t, nil, nil
	}

	if err := s.TicketRepo.Create(t); err != nil {
		return nil, nil, err
	}
	return t, nil, nil
}

// TicketForm decides the form presentation for an optional ticket id
func (s *TicketService) TicketForm(id *int) (*FormState, error) {
	if id == nil {
		return &FormState{Mode: ModeCreate, Values: schema.Tickets.Defaults()}, nil
	}

	ticket, err := s.TicketRepo.GetByID(*id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return &FormState{Mode: ModeNotFound}, nil
	}

	return &FormState{
		Mode:   ModeEdit,
		Values: schema.Tickets.Prefill(schema.TicketValues(ticket)),
	}, nil
}

// CompleteTicket marks the ticket done and queues the customer notification.
// Completing twice reuses the existing notification.
func (s *TicketService) CompleteTicket(id int) (*CompleteTicketResult, error) {
	ticket, err := s.TicketRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, appErrors.NewTicketNotFound(id)
	}

	if !ticket.Completed {
		if err := s.TicketRepo.SetCompleted(id, true); err != nil {
			return nil, err
		}
	}

	notification, err := s.NotificationRepo.CreateForTicket(id)
	if err != nil {
		return nil, err
	}

	if notification.RenderedContent == "" {
		customer, err := s.CustomerRepo.GetByID(ticket.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, appErrors.NewCustomerNotFound(ticket.CustomerID)
		}
		rendered := RenderNotification(DefaultNotificationTemplate, ticket, customer)
		if err := s.NotificationRepo.UpdateContent(notification.ID, rendered); err != nil {
			return nil, err
		}
		notification.RenderedContent = rendered
	}

	if err := s.Queue.Publish(s.Topic, notification.ID); err != nil {
		return nil, err
	}

	return &CompleteTicketResult{
		TicketID:       id,
		NotificationID: notification.ID,
		Status:         notification.Status,
	}, nil
}
