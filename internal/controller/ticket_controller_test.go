package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchworks/repairshop-backend/internal/controller"
	"github.com/wrenchworks/repairshop-backend/internal/model"
	"github.com/wrenchworks/repairshop-backend/internal/service"
	"github.com/wrenchworks/repairshop-backend/internal/telemetry"
)

type MockTicketRepo struct {
	tickets map[int]*model.Ticket
}

func newMockTicketRepo(tickets ...*model.Ticket) *MockTicketRepo {
	m := &MockTicketRepo{tickets: map[int]*model.Ticket{}}
	for _, t := range tickets {
		m.tickets[t.ID] = t
	}
	return m
}

func (m *MockTicketRepo) GetByID(id int) (*model.Ticket, error) {
	return m.tickets[id], nil
}

func (m *MockTicketRepo) List(offset, limit, customerID int, completed *bool) ([]*model.Ticket, int, error) {
	out := []*model.Ticket{}
	for _, t := range m.tickets {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m *MockTicketRepo) Create(t *model.Ticket) error {
	t.ID = len(m.tickets) + 1
	m.tickets[t.ID] = t
	return nil
}

func (m *MockTicketRepo) Update(t *model.Ticket) error {
	m.tickets[t.ID] = t
	return nil
}

func (m *MockTicketRepo) SetCompleted(id int, completed bool) error {
	m.tickets[id].Completed = completed
	return nil
}

type MockNotificationRepo struct {
	byTicket map[int]*model.Notification
	nextID   int
}

func newMockNotificationRepo() *MockNotificationRepo {
	return &MockNotificationRepo{byTicket: map[int]*model.Notification{}}
}

func (m *MockNotificationRepo) CreateForTicket(ticketID int) (*model.Notification, error) {
	if n, ok := m.byTicket[ticketID]; ok {
		return n, nil
	}
	m.nextID++
	n := &model.Notification{ID: m.nextID, TicketID: ticketID, Status: "pending"}
	m.byTicket[ticketID] = n
	return n, nil
}

func (m *MockNotificationRepo) GetByTicket(ticketID int) (*model.Notification, error) {
	return m.byTicket[ticketID], nil
}

func (m *MockNotificationRepo) GetByID(id int) (*model.Notification, error) {
	for _, n := range m.byTicket {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (m *MockNotificationRepo) UpdateStatus(id int, status, lastError string) error { return nil }

func (m *MockNotificationRepo) UpdateContent(id int, content string) error {
	n, _ := m.GetByID(id)
	if n != nil {
		n.RenderedContent = content
	}
	return nil
}

type MockQueue struct {
	published []any
}

func (q *MockQueue) Publish(topic string, payload any) error {
	q.published = append(q.published, payload)
	return nil
}

func (q *MockQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func sampleTicket() *model.Ticket {
	return &model.Ticket{
		ID:          5,
		CustomerID:  1,
		Title:       "Laptop will not boot",
		Description: "No display output.",
		Tech:        "unassigned",
	}
}

func newTicketController(tickets *MockTicketRepo, customers *MockCustomerRepo, q *MockQueue) *controller.TicketController {
	return &controller.TicketController{
		TicketService: &service.TicketService{
			TicketRepo:       tickets,
			CustomerRepo:     customers,
			NotificationRepo: newMockNotificationRepo(),
			Queue:            q,
			Topic:            "ticket_notifications",
		},
		Telemetry: telemetry.NopSink{},
	}
}

func TestTicketFormNotFoundRendersState(t *testing.T) {
	ctrl := newTicketController(newMockTicketRepo(), newMockCustomerRepo(), &MockQueue{})

	req := httptest.NewRequest("GET", "/api/tickets/form?ticketId=404", nil)
	w := httptest.NewRecorder()
	ctrl.TicketForm(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body["mode"])
	assert.Equal(t, "Ticket ID #404 not found", body["message"])
}

func TestTicketFormCreateModeSentinels(t *testing.T) {
	ctrl := newTicketController(newMockTicketRepo(), newMockCustomerRepo(), &MockQueue{})

	req := httptest.NewRequest("GET", "/api/tickets/form", nil)
	w := httptest.NewRecorder()
	ctrl.TicketForm(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Mode   string         `json:"mode"`
		Values map[string]any `json:"values"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "create", body.Mode)
	assert.Equal(t, "(New)", body.Values["id"])
	assert.Equal(t, "new-ticket@example.com", body.Values["tech"])
	assert.Equal(t, false, body.Values["completed"])
}

func TestCreateTicketUnknownCustomer(t *testing.T) {
	ctrl := newTicketController(newMockTicketRepo(), newMockCustomerRepo(), &MockQueue{})

	b, _ := json.Marshal(map[string]any{
		"customer_id": 42,
		"title":       "Broken hinge",
		"description": "Left hinge snapped.",
	})
	req := httptest.NewRequest("POST", "/api/tickets", bytes.NewReader(b))
	w := httptest.NewRecorder()
	ctrl.CreateTicket(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Customer not found", body.Errors["customer_id"])
}

func TestCreateTicketOK(t *testing.T) {
	repo := newMockTicketRepo()
	ctrl := newTicketController(repo, newMockCustomerRepo(sampleCustomer()), &MockQueue{})

	b, _ := json.Marshal(map[string]any{
		"customer_id": 1,
		"title":       "Broken hinge",
		"description": "Left hinge snapped.",
	})
	req := httptest.NewRequest("POST", "/api/tickets", bytes.NewReader(b))
	w := httptest.NewRecorder()
	ctrl.CreateTicket(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.Ticket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "unassigned", created.Tech)
	assert.False(t, created.Completed)
}

func TestCompleteTicket(t *testing.T) {
	q := &MockQueue{}
	ctrl := newTicketController(newMockTicketRepo(sampleTicket()), newMockCustomerRepo(sampleCustomer()), q)

	r := newRouterWithMethod("PATCH", "/api/tickets/{id}/complete", ctrl.CompleteTicket)
	req := httptest.NewRequest("PATCH", "/api/tickets/5/complete", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.CompleteTicketResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 5, result.TicketID)
	require.Len(t, q.published, 1)
}

func TestCompleteTicketNotFound(t *testing.T) {
	ctrl := newTicketController(newMockTicketRepo(), newMockCustomerRepo(), &MockQueue{})

	r := newRouterWithMethod("PATCH", "/api/tickets/{id}/complete", ctrl.CompleteTicket)
	req := httptest.NewRequest("PATCH", "/api/tickets/99/complete", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}
