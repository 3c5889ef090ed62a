// Package schema declares the customer and ticket tables once and derives
// everything shape-related from that single declaration: the strict insert
// validator, the permissive select validator, and the blank form defaults.
package schema

import (
	"regexp"
	"strings"
)

type Type int

const (
	TypeString Type = iota
	TypeBool
	TypeID
)

// Field describes one column: its type, its validation rules with their
// human-readable messages, and its blank form default.
type Field struct {
	Name string
	Type Type

	requiredMsg string
	exactLen    int
	exactMsg    string
	pattern     *regexp.Regexp
	patternMsg  string
	emailMsg    string
	positiveMsg string
	optional    bool
	defaultVal  any
}

// String declares a text field. Unless marked Optional, a missing value is
// tolerated on insert but an empty one is not once NotEmpty is set.
func String(name string) *Field {
	return &Field{Name: name, Type: TypeString}
}

// Bool declares a boolean flag field.
func Bool(name string) *Field {
	return &Field{Name: name, Type: TypeBool}
}

// ID declares a numeric identity field. Inserts accept a positive integer,
// the create-mode sentinel, or no value at all.
func ID(name string) *Field {
	return &Field{Name: name, Type: TypeID}
}

// NotEmpty rejects missing or blank values with msg.
func (f *Field) NotEmpty(msg string) *Field {
	f.requiredMsg = msg
	return f
}

// Len requires the trimmed value to be exactly n characters.
func (f *Field) Len(n int, msg string) *Field {
	f.exactLen = n
	f.exactMsg = msg
	return f
}

// Match requires the value to match re. Empty values are still checked;
// combine with Optional to allow absence.
func (f *Field) Match(re *regexp.Regexp, msg string) *Field {
	f.pattern = re
	f.patternMsg = msg
	return f
}

// Email requires a plausible email address.
func (f *Field) Email(msg string) *Field {
	f.emailMsg = msg
	return f
}

// Positive requires a present, positive integer (foreign keys).
func (f *Field) Positive(msg string) *Field {
	f.positiveMsg = msg
	return f
}

// Optional marks the field as allowed to be missing or empty.
func (f *Field) Optional() *Field {
	f.optional = true
	return f
}

// Default sets the blank form default shown for a not-yet-existing record.
func (f *Field) Default(v any) *Field {
	f.defaultVal = v
	return f
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateInsert returns the violation message for v, or "" if the value is
// acceptable for an insert. present reports whether the caller had a value
// for this field at all.
func (f *Field) validateInsert(v any, present bool) string {
	if v == nil {
		// JSON null reads as absent
		present = false
	}
	switch f.Type {
	case TypeString:
		if !present {
			if f.requiredMsg != "" {
				return f.requiredMsg
			}
			return ""
		}
		s, ok := v.(string)
		if !ok {
			return f.Name + " must be a string"
		}
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			if f.optional {
				return ""
			}
			if f.requiredMsg != "" {
				return f.requiredMsg
			}
		}
		if f.exactLen > 0 && len([]rune(trimmed)) != f.exactLen {
			return f.exactMsg
		}
		if f.emailMsg != "" && !emailRe.MatchString(trimmed) {
			return f.emailMsg
		}
		if f.pattern != nil && !f.pattern.MatchString(trimmed) {
			return f.patternMsg
		}
		return ""
	case TypeBool:
		if !present {
			return ""
		}
		if _, ok := v.(bool); !ok {
			return f.Name + " must be a boolean"
		}
		return ""
	case TypeID:
		if !present {
			if f.positiveMsg != "" {
				return f.positiveMsg
			}
			return ""
		}
		n, ok := asInt(v)
		if !ok {
			if s, isStr := v.(string); isStr && s == NewRecordID && f.positiveMsg == "" {
				return ""
			}
			return f.Name + " must be a number"
		}
		if f.positiveMsg != "" && n <= 0 {
			return f.positiveMsg
		}
		return ""
	}
	return ""
}

// validateSelect only checks the dynamic type; persisted rows are trusted
// for content.
func (f *Field) validateSelect(v any, present bool) string {
	if !present || v == nil {
		return ""
	}
	switch f.Type {
	case TypeString:
		if _, ok := v.(string); !ok {
			return f.Name + " must be a string"
		}
	case TypeBool:
		if _, ok := v.(bool); !ok {
			return f.Name + " must be a boolean"
		}
	case TypeID:
		if _, ok := asInt(v); !ok {
			return f.Name + " must be a number"
		}
	}
	return ""
}

// asInt normalizes the integer encodings seen from JSON decoding and Go
// callers.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}
