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

type CustomerController struct {
	CustomerService *service.CustomerService
	Telemetry       telemetry.Sink
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	search := r.URL.Query().Get("search")

	var active *bool
	if s := r.URL.Query().Get("active"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid active filter")
			return
		}
		active = &b
	}

	customers, pagination, err := c.CustomerService.ListCustomers(page, pageSize, active, search)
	if err != nil {
		c.Telemetry.CaptureException(err, map[string]string{"op": "list_customers"})
		writeError(w, http.StatusInternalServerError, "failed to fetch customers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       customers,
		"pagination": pagination,
	})
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	details, err := c.CustomerService.GetCustomerDetails(id)
	if err != nil {
		c.Telemetry.CaptureException(err, map[string]string{"op": "get_customer"})
		writeError(w, http.StatusInternalServerError, "failed to fetch customer")
		return
	}
	if details == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Customer ID #%d not found", id))
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var values schema.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	delete(values, "id")

	c.save(w, values, http.StatusCreated, "create_customer")
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var values schema.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	values["id"] = id

	c.save(w, values, http.StatusOK, "update_customer")
}

func (c *CustomerController) save(w http.ResponseWriter, values schema.Values, okStatus int, op string) {
	customer, fieldErrs, err := c.CustomerService.SaveCustomer(values)
	if fieldErrs != nil {
		writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		var dup *appErrors.ErrDuplicateEmail
		var missing *appErrors.ErrCustomerNotFound
		switch {
		case errors.As(err, &dup):
			writeError(w, http.StatusConflict, dup.Error())
		case errors.As(err, &missing):
			writeError(w, http.StatusNotFound, fmt.Sprintf("Customer ID #%d not found", missing.CustomerID))
		default:
			c.Telemetry.CaptureException(err, map[string]string{"op": op})
			writeError(w, http.StatusInternalServerError, "failed to save customer")
		}
		return
	}

	writeJSON(w, okStatus, customer)
}

// CustomerForm decides create vs edit from the optional customerId query
// parameter and returns the initial form values.
func (c *CustomerController) CustomerForm(w http.ResponseWriter, r *http.Request) {
	var id *int
	if s := r.URL.Query().Get("customerId"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid customer id")
			return
		}
		id = &n
	}

	form, err := c.CustomerService.CustomerForm(id)
	if err != nil {
		c.Telemetry.CaptureException(err, map[string]string{"op": "customer_form"})
		writeError(w, http.StatusInternalServerError, "failed to load form")
		return
	}

	if form.Mode == service.ModeNotFound {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"mode":    form.Mode,
			"message": fmt.Sprintf("Customer ID #%d not found", *id),
		})
		return
	}

	writeJSON(w, http.StatusOK, form)
}
