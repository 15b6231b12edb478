// Package records provides the services managing the dashboard's record
// collections (users and products) and their aggregate statistics.
//
// Each service owns one in-memory [memdb.Table]. Services normalize input the
// same way on create and update, and translate table outcomes into the
// package's sentinel errors. Field validation (required fields, email format,
// price range) is the caller's job; services trust their inputs.
package records

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/maruel/admindash/internal/memdb"
	"github.com/maruel/admindash/internal/storage/entity"
)

// User is a user record.
type User struct {
	memdb.Meta
	Name  string          `json:"name" jsonschema:"description=Display name"`
	Email string          `json:"email" jsonschema:"description=Email address (unique and lowercase)"`
	Role  entity.UserRole `json:"role,omitempty" jsonschema:"description=Role label (admin/editor/viewer)"`
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// SearchFields implements memdb.Row.
func (u *User) SearchFields() []string {
	return []string{u.Name, u.Email}
}

// Normalize implements memdb.Row.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
}

// NormalizeEmail returns the canonical form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFields holds the fields of a new user.
type UserFields struct {
	Name  string
	Email string
	Role  entity.UserRole
}

// UserPatch holds the fields to change on a user. Nil fields are left as is.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *entity.UserRole
}

// UserService manages user records.
type UserService struct {
	table   *memdb.Table[*User]
	byEmail *memdb.UniqueIndex[string, *User]
}

// NewUserService creates an empty user service.
func NewUserService(opts ...memdb.Option) *UserService {
	table := memdb.NewTable[*User](opts...)
	byEmail := memdb.NewUniqueIndex(table, func(u *User) string { return u.Email })
	return &UserService{table: table, byEmail: byEmail}
}

// List returns one page of users matching search by name or email, and the
// number of matching users.
func (s *UserService) List(page, limit int, search string) ([]*User, int) {
	return s.table.List(page, limit, search)
}

// Get retrieves a user by ID.
func (s *UserService) Get(id string) (*User, error) {
	u, ok := s.table.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// GetByEmail retrieves a user by exact email after normalization. O(1) via index.
func (s *UserService) GetByEmail(email string) (*User, error) {
	u, ok := s.byEmail.Get(NormalizeEmail(email))
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// Create creates a new user.
func (s *UserService) Create(f UserFields) (*User, error) {
	u, err := s.table.Insert(&User{Name: f.Name, Email: f.Email, Role: f.Role})
	if err != nil {
		return nil, translateErr(err)
	}
	return u, nil
}

// Update applies a patch to a user.
func (s *UserService) Update(id string, p UserPatch) (*User, error) {
	u, err := s.table.Update(id, func(u *User) error {
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.Email != nil {
			u.Email = *p.Email
		}
		if p.Role != nil {
			u.Role = *p.Role
		}
		return nil
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return u, nil
}

// Delete deletes a user and reports whether it existed.
func (s *UserService) Delete(id string) bool {
	return s.table.Delete(id)
}

// Len returns the number of users.
func (s *UserService) Len() int {
	return s.table.Len()
}

// All iterates over all users in creation order.
func (s *UserService) All() iter.Seq[*User] {
	return s.table.All()
}

//

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")
	// ErrEmailInUse is returned when another user already has the email.
	ErrEmailInUse = errors.New("email already in use")
)

func translateErr(err error) error {
	switch {
	case errors.Is(err, memdb.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, memdb.ErrDuplicate):
		return ErrEmailInUse
	default:
		return fmt.Errorf("records: %w", err)
	}
}
