// Defines shared data types and enums for the API.

package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeFormat is the wire format of all timestamps: ISO-8601 in UTC with
// milliseconds.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// FormatTime formats t in TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// UserRole is the role label of a user record or account.
type UserRole string

const (
	// UserRoleAdmin can manage users and products.
	UserRoleAdmin UserRole = "admin"
	// UserRoleEditor can manage products.
	UserRoleEditor UserRole = "editor"
	// UserRoleViewer has read-only access.
	UserRoleViewer UserRole = "viewer"
)

// IsValid returns true if the role is a known value.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleEditor, UserRoleViewer:
		return true
	}
	return false
}

// Price is a product price on input. It accepts a JSON number or a numeric
// string. Decoding never fails; check Valid instead so the API can answer with
// a field-level message.
type Price struct {
	value float64
	valid bool
}

// NewPrice returns a valid price.
func NewPrice(v float64) Price {
	return Price{value: v, valid: v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)}
}

// Value returns the price. Only meaningful when Valid.
func (p Price) Value() float64 {
	return p.value
}

// Valid reports whether the input was a finite non-negative number.
func (p Price) Valid() bool {
	return p.valid
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var raw string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		raw = strings.TrimSpace(raw)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		raw = string(data)
	default:
		return nil
	}
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*p = NewPrice(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}
