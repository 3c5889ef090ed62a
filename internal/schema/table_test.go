package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchworks/repairshop-backend/internal/model"
	"github.com/wrenchworks/repairshop-backend/internal/schema"
)

func validCustomerValues() schema.Values {
	return schema.Values{
		"first_name": "Alice",
		"last_name":  "Mwangi",
		"email":      "alice@example.com",
		"phone":      "123-456-7890",
		"address1":   "12 Baker St",
		"city":       "Springfield",
		"state":      "IL",
		"zip":        "62701",
		"active":     true,
	}
}

func TestCustomerValidateInsertOK(t *testing.T) {
	errs := schema.Customers.ValidateInsert(validCustomerValues())
	assert.Nil(t, errs)
}

func TestCustomerEmailValidation(t *testing.T) {
	v := validCustomerValues()
	v["email"] = "not-an-email"

	errs := schema.Customers.ValidateInsert(v)
	require.NotNil(t, errs)
	assert.Equal(t, "Invalid email address", errs["email"])
}

func TestCustomerZipValidation(t *testing.T) {
	cases := []struct {
		zip string
		ok  bool
	}{
		{"12345", true},
		{"12345-6789", true},
		{"1234", false},
		{"12345-678", false},
	}

	for _, tc := range cases {
		v := validCustomerValues()
		v["zip"] = tc.zip
		errs := schema.Customers.ValidateInsert(v)
		if tc.ok {
			assert.Nil(t, errs, "zip %q should pass", tc.zip)
		} else {
			require.NotNil(t, errs, "zip %q should fail", tc.zip)
			assert.Equal(t, "Invalid Zip code. Use 5 digits or 5 digits followed by a hyphen and 4 digits", errs["zip"])
		}
	}
}

func TestCustomerPhoneValidation(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"123-456-7890", true},
		{"1234567890", false},
		{"(123) 456-7890", false},
	}

	for _, tc := range cases {
		v := validCustomerValues()
		v["phone"] = tc.phone
		errs := schema.Customers.ValidateInsert(v)
		if tc.ok {
			assert.Nil(t, errs, "phone %q should pass", tc.phone)
		} else {
			require.NotNil(t, errs, "phone %q should fail", tc.phone)
			assert.Equal(t, "Invalid phone number format. Use XXX-XXX-XXXX", errs["phone"])
		}
	}
}

func TestCustomerStateValidation(t *testing.T) {
	for _, state := range []string{"I", "ILL"} {
		v := validCustomerValues()
		v["state"] = state
		errs := schema.Customers.ValidateInsert(v)
		require.NotNil(t, errs, "state %q should fail", state)
		assert.Equal(t, "State must be 2 characters", errs["state"])
	}
}

func TestCustomerRequiredFields(t *testing.T) {
	errs := schema.Customers.ValidateInsert(schema.Values{})
	require.NotNil(t, errs)
	assert.Equal(t, "First name is required", errs["first_name"])
	assert.Equal(t, "Last name is required", errs["last_name"])
	assert.Equal(t, "Address is required", errs["address1"])
	assert.Equal(t, "City is required", errs["city"])

	// optional fields stay silent
	assert.NotContains(t, errs, "address2")
	assert.NotContains(t, errs, "notes")
	assert.NotContains(t, errs, "active")
}

func TestTicketValidateInsert(t *testing.T) {
	errs := schema.Tickets.ValidateInsert(schema.Values{
		"customer_id": 1,
		"title":       "Laptop will not boot",
		"description": "No display output.",
	})
	assert.Nil(t, errs)

	errs = schema.Tickets.ValidateInsert(schema.Values{})
	require.NotNil(t, errs)
	assert.Equal(t, "Customer is required", errs["customer_id"])
	assert.Equal(t, "Title is required", errs["title"])
	assert.Equal(t, "Description is required", errs["description"])
}

func TestTicketValidateInsertAcceptsJSONNumbers(t *testing.T) {
	// json.Decoder delivers numbers as float64
	errs := schema.Tickets.ValidateInsert(schema.Values{
		"id":          float64(7),
		"customer_id": float64(1),
		"title":       "Slow desktop",
		"description": "Minutes to login screen.",
	})
	assert.Nil(t, errs)
}

func TestValidateSelectIsPermissive(t *testing.T) {
	// persisted rows skip content rules, only the shape is checked
	errs := schema.Customers.ValidateSelect(schema.Values{
		"first_name": "",
		"zip":        "not-a-zip",
		"active":     true,
	})
	assert.Nil(t, errs)

	errs = schema.Customers.ValidateSelect(schema.Values{"active": "yes"})
	require.NotNil(t, errs)
	assert.Contains(t, errs["active"], "boolean")
}

func TestCustomerDefaults(t *testing.T) {
	v := schema.Customers.Defaults()

	for _, field := range []string{"first_name", "last_name", "email", "phone", "address1", "address2", "city", "state", "zip", "notes"} {
		assert.Equal(t, "", v[field], "field %s", field)
	}
	assert.Equal(t, true, v["active"])
}

func TestTicketDefaults(t *testing.T) {
	v := schema.Tickets.Defaults()

	assert.Equal(t, schema.NewRecordID, v["id"])
	assert.Equal(t, false, v["completed"])
	assert.Equal(t, schema.TechPlaceholder, v["tech"])
	assert.Equal(t, "", v["title"])
	assert.Equal(t, "", v["description"])
}

func TestPrefillKeepsFalsyValues(t *testing.T) {
	completed := schema.Tickets.Prefill(schema.TicketValues(&model.Ticket{
		ID: 5, CustomerID: 1, Title: "done", Description: "d", Completed: true, Tech: "tech.sam@example.com",
	}))
	assert.Equal(t, true, completed["completed"])

	// false must survive: presence wins over the documented default
	open := schema.Tickets.Prefill(schema.TicketValues(&model.Ticket{
		ID: 6, CustomerID: 1, Title: "open", Description: "d", Completed: false, Tech: "tech.sam@example.com",
	}))
	assert.Equal(t, false, open["completed"])
}

func TestPrefillKeepsEmptyStrings(t *testing.T) {
	// a customer whose notes were explicitly cleared stays cleared
	notes := ""
	v := schema.Customers.Prefill(schema.CustomerValues(&model.Customer{
		ID: 3, FirstName: "Carol", Notes: &notes, Active: false,
	}))
	assert.Equal(t, "", v["notes"])
	assert.Equal(t, false, v["active"])
}

func TestPrefillWithoutRecordUsesDefaults(t *testing.T) {
	v := schema.Tickets.Prefill(nil)
	assert.Equal(t, schema.Tickets.Defaults(), v)
}
