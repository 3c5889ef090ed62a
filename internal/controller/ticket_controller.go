package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/wrenchworks/repairshop-backend/internal/errors"
	"github.com/wrenchworks/repairshop-backend/internal/schema"
	"github.com/wrenchworks/repairshop-backend/internal/service"
	"github.com/wrenchworks/repairshop-backend/internal/telemetry"
)

type TicketController struct {
	TicketService *service.TicketService
	Telemetry     telemetry.Sink
}

func (c *TicketController) ListTickets(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	customerID, _ := strconv.Atoi(r.URL.Query().Get("customer_id"))

	var completed *bool
	if s := r.URL.Query().Get("completed"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid completed filter")
			return
		}
		completed = &b
	}

	tickets, pagination, err := c.TicketService.ListTickets(page, pageSize, customerID, completed)
	if err != nil {
		c.Telemetry.CaptureException(err, map[string]string{"op": "list_tickets"})
		writeError(w, http.StatusInternalServerError, "failed to fetch tickets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       tickets,
		"pagination": pagination,
	})
}

func (c *TicketController) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	ticket, err := c.TicketService.GetTicket(id)
	if err != nil {
		c.Telemetry.CaptureException(err, map[string]string{"op": "get_ticket"})
		writeError(w, http.StatusInternalServerError, "failed to fetch ticket")
		return
	}
	if ticket == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Ticket ID #%d not found", id))
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

func (c *TicketController) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var values schema.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	delete(values, "id")

	c.save(w, values, http.StatusCreated, "create_ticket")
}

func (c *TicketController) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	var values schema.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	values["id"] = id

	c.save(w, values, http.StatusOK, "update_ticket")
}

func (c *TicketController) save(w http.ResponseWriter, values schema.Values, okStatus int, op string) {
	ticket, fieldErrs, err := c.TicketService.SaveTicket(values)
	if fieldErrs != nil {
		writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		var missing *appErrors.ErrTicketNotFound
		if errors.As(err, &missing) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Ticket ID #%d not found", missing.TicketID))
			return
		}
		c.Telemetry.CaptureException(err, map[string]string{"op": op})
		writeError(w, http.StatusInternalServerError, "failed to save ticket")
		return
	}

	writeJSON(w, okStatus, ticket)
}

// TicketForm decides create vs edit from the optional ticketId query
// parameter and returns the initial form values.
func (c *TicketController) TicketForm(w http.ResponseWriter, r *http.Request) {
	var id *int
	if s := r.URL.Query().Get("ticketId"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid ticket id")
			return
		}
		id = &n
	}

	form, err := c.TicketService.TicketForm(id)
	if err != nil {
		c.Telemetry.CaptureException(err, map[string]string{"op": "ticket_form"})
		writeError(w, http.StatusInternalServerError, "failed to load form")
		return
	}

	if form.Mode == service.ModeNotFound {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"mode":    form.Mode,
			"message": fmt.Sprintf("Ticket ID #%d not found", *id),
		})
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// CompleteTicket marks a ticket done and queues the customer notification
func (c *TicketController) CompleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}

	result, err := c.TicketService.CompleteTicket(id)
	if err != nil {
		var missing *appErrors.ErrTicketNotFound
		if errors.As(err, &missing) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Ticket ID #%d not found", id))
			return
		}
		c.Telemetry.CaptureException(err, map[string]string{"op": "complete_ticket"})
		writeError(w, http.StatusInternalServerError, "failed to complete ticket")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
