package service

import "github.com/wrenchworks/repairshop-backend/internal/schema"

// Form presentation modes. NotFound is a rendered state, not an error: the
// page shows an alternate view with a way back.
const (
	ModeCreate   = "create"
	ModeEdit     = "edit"
	ModeNotFound = "not_found"
)

// FormState is what a form endpoint returns: the mode decision plus the
// initial values (nil for the not-found state).
type FormState struct {
	Mode   string        `json:"mode"`
	Values schema.Values `json:"values,omitempty"`
}
