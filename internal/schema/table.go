package schema

// Values is a field-name-keyed value map, the common currency between JSON
// request bodies, validators, and form prefill.
type Values map[string]any

// Errors maps field names to human-readable violation messages. A nil map
// means the values passed validation; validation never panics.
type Errors map[string]string

type Table struct {
	Name   string
	Fields []*Field
}

func NewTable(name string, fields ...*Field) *Table {
	return &Table{Name: name, Fields: fields}
}

// ValidateInsert applies the strict input rules and returns a field-keyed
// error map, or nil when every field is acceptable.
func (t *Table) ValidateInsert(v Values) Errors {
	var errs Errors
	for _, f := range t.Fields {
		val, present := v[f.Name]
		if msg := f.validateInsert(val, present); msg != "" {
			if errs == nil {
				errs = Errors{}
			}
			errs[f.Name] = msg
		}
	}
	return errs
}

// ValidateSelect applies the permissive shape check used for rows read back
// from the store.
func (t *Table) ValidateSelect(v Values) Errors {
	var errs Errors
	for _, f := range t.Fields {
		val, present := v[f.Name]
		if msg := f.validateSelect(val, present); msg != "" {
			if errs == nil {
				errs = Errors{}
			}
			errs[f.Name] = msg
		}
	}
	return errs
}

// Defaults returns the blank form values for a record that does not exist
// yet: empty strings for text, false for flags, declared defaults otherwise.
func (t *Table) Defaults() Values {
	v := Values{}
	for _, f := range t.Fields {
		if f.defaultVal != nil {
			v[f.Name] = f.defaultVal
			continue
		}
		switch f.Type {
		case TypeString:
			v[f.Name] = ""
		case TypeBool:
			v[f.Name] = false
		case TypeID:
			v[f.Name] = 0
		}
	}
	return v
}

// Prefill computes form initial values. Presence wins: any field the
// existing record defines is used as-is, including legitimate falsy values
// like false, zero, or an explicitly empty string. Defaults apply only to
// fields the record does not define.
func (t *Table) Prefill(existing Values) Values {
	defaults := t.Defaults()
	if existing == nil {
		return defaults
	}
	v := Values{}
	for _, f := range t.Fields {
		if val, ok := existing[f.Name]; ok {
			v[f.Name] = val
		} else {
			v[f.Name] = defaults[f.Name]
		}
	}
	return v
}
