// Defines the validation interface for requests.

package dto

import (
	"regexp"
	"strings"
)

// Validatable is implemented by request types that can validate their fields.
// The Wrap functions in handler_wrapper.go use this interface as a type
// constraint to ensure all request types provide validation.
type Validatable interface {
	Validate() error
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address after trimming.
func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// blank reports whether s is empty after trimming.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateName(name string) error {
	if blank(name) {
		return MissingField("name")
	}
	return nil
}

func validateEmail(email string) error {
	if blank(email) {
		return MissingField("email")
	}
	if !ValidEmail(email) {
		return InvalidField("email", "Invalid email format")
	}
	return nil
}

func validateRole(role *UserRole) error {
	if role != nil && *role != "" && !role.IsValid() {
		return InvalidField("role", "Invalid role").WithDetail("allowed", []UserRole{UserRoleAdmin, UserRoleEditor, UserRoleViewer})
	}
	return nil
}

func validatePrice(p *Price) error {
	if p == nil || !p.Valid() {
		return InvalidField("price", "Valid price is required")
	}
	return nil
}
