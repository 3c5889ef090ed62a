package schema

import (
	"regexp"

	"github.com/wrenchworks/repairshop-backend/internal/model"
)

const (
	// NewRecordID is the id sentinel shown on a create-mode ticket form.
	NewRecordID = "(New)"

	// TechPlaceholder is the technician shown on a create-mode ticket form.
	TechPlaceholder = "new-ticket@example.com"

	// TechUnassigned is the stored technician for tickets nobody owns yet.
	TechUnassigned = "unassigned"
)

var (
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phoneRe = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// Customers is the single source of truth for the customer shape. The seed
// DDL, the repositories, and both validators all follow this declaration.
var Customers = NewTable("customers",
	ID("id"),
	String("first_name").NotEmpty("First name is required"),
	String("last_name").NotEmpty("Last name is required"),
	String("email").NotEmpty("Email is required").Email("Invalid email address"),
	String("phone").NotEmpty("Phone is required").
		Match(phoneRe, "Invalid phone number format. Use XXX-XXX-XXXX"),
	String("address1").NotEmpty("Address is required"),
	String("address2").Optional(),
	String("city").NotEmpty("City is required"),
	String("state").NotEmpty("State is required").
		Len(2, "State must be 2 characters"),
	String("zip").NotEmpty("Zip is required").
		Match(zipRe, "Invalid Zip code. Use 5 digits or 5 digits followed by a hyphen and 4 digits"),
	String("notes").Optional(),
	Bool("active").Default(true),
)

// Tickets mirrors Customers for the ticket shape.
var Tickets = NewTable("tickets",
	ID("id").Default(NewRecordID),
	ID("customer_id").Positive("Customer is required"),
	String("title").NotEmpty("Title is required"),
	String("description").NotEmpty("Description is required"),
	Bool("completed").Default(false),
	String("tech").Default(TechPlaceholder),
)

// CustomerValues flattens a persisted customer into form values.
func CustomerValues(c *model.Customer) Values {
	if c == nil {
		return nil
	}
	return Values{
		"id":         c.ID,
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"email":      c.Email,
		"phone":      c.Phone,
		"address1":   c.Address1,
		"address2":   strOrEmpty(c.Address2),
		"city":       c.City,
		"state":      c.State,
		"zip":        c.Zip,
		"notes":      strOrEmpty(c.Notes),
		"active":     c.Active,
	}
}

// TicketValues flattens a persisted ticket into form values.
func TicketValues(t *model.Ticket) Values {
	if t == nil {
		return nil
	}
	return Values{
		"id":          t.ID,
		"customer_id": t.CustomerID,
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"tech":        t.Tech,
	}
}

// BindCustomer builds a customer entity from validated values. Call only
// after ValidateInsert has passed.
func BindCustomer(v Values) *model.Customer {
	c := &model.Customer{
		FirstName: stringAt(v, "first_name"),
		LastName:  stringAt(v, "last_name"),
		Email:     stringAt(v, "email"),
		Phone:     stringAt(v, "phone"),
		Address1:  stringAt(v, "address1"),
		City:      stringAt(v, "city"),
		State:     stringAt(v, "state"),
		Zip:       stringAt(v, "zip"),
		Active:    boolAt(v, "active", true),
	}
	if id, ok := v["id"]; ok {
		if n, isInt := asInt(id); isInt {
			c.ID = n
		}
	}
	if s := stringAt(v, "address2"); s != "" {
		c.Address2 = &s
	}
	if s := stringAt(v, "notes"); s != "" {
		c.Notes = &s
	}
	return c
}

// BindTicket builds a ticket entity from validated values. The id sentinel
// binds to zero so the store assigns one.
func BindTicket(v Values) *model.Ticket {
	t := &model.Ticket{
		Title:       stringAt(v, "title"),
		Description: stringAt(v, "description"),
		Completed:   boolAt(v, "completed", false),
		Tech:        stringAt(v, "tech"),
	}
	if id, ok := v["id"]; ok {
		if n, isInt := asInt(id); isInt {
			t.ID = n
		}
	}
	if cid, ok := asInt(v["customer_id"]); ok {
		t.CustomerID = cid
	}
	if t.Tech == "" || t.Tech == TechPlaceholder {
		t.Tech = TechUnassigned
	}
	return t
}

func stringAt(v Values, key string) string {
	s, _ := v[key].(string)
	return s
}

func boolAt(v Values, key string, fallback bool) bool {
	if b, ok := v[key].(bool); ok {
		return b
	}
	return fallback
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
