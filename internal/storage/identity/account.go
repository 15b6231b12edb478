// Package identity provides the operator accounts allowed to sign in to the
// dashboard and their login sessions.
//
// Accounts are distinct from the user records managed through the API: the
// records are the data being administered, accounts are the people
// administering it. Both tables live in memory.
package identity

import (
	"errors"
	"fmt"
	"iter"

	"github.com/maruel/admindash/internal/memdb"
	"github.com/maruel/admindash/internal/storage/entity"
	"github.com/maruel/admindash/internal/storage/records"
	"golang.org/x/crypto/bcrypt"
)

// Account is an operator identity (persistent fields only).
type Account struct {
	memdb.Meta
	Email string          `json:"email" jsonschema:"description=Login email address (lowercase)"`
	Name  string          `json:"name" jsonschema:"description=Display name"`
	Role  entity.UserRole `json:"role" jsonschema:"description=Access level (admin/editor/viewer)"`
}

// accountStorage is the stored form of an account, with its password hash.
type accountStorage struct {
	Account
	PasswordHash string `json:"password_hash"`
}

func (a *accountStorage) Clone() *accountStorage {
	c := *a
	return &c
}

func (a *accountStorage) SearchFields() []string {
	return []string{a.Name, a.Email}
}

func (a *accountStorage) Normalize() {
	a.Email = records.NormalizeEmail(a.Email)
}

// AccountService handles account management and authentication.
type AccountService struct {
	table   *memdb.Table[*accountStorage]
	byEmail *memdb.UniqueIndex[string, *accountStorage]
	cost    int
}

// NewAccountService creates an empty account service.
func NewAccountService(opts ...memdb.Option) *AccountService {
	table := memdb.NewTable[*accountStorage](opts...)
	byEmail := memdb.NewUniqueIndex(table, func(a *accountStorage) string { return a.Email })
	return &AccountService{table: table, byEmail: byEmail, cost: bcrypt.DefaultCost}
}

// Create creates a new account.
func (s *AccountService) Create(email, password, name string, role entity.UserRole) (*Account, error) {
	if email == "" || password == "" {
		return nil, errEmailPwdRequired
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: %q", errInvalidRole, role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	stored, err := s.table.Insert(&accountStorage{
		Account:      Account{Email: email, Name: name, Role: role},
		PasswordHash: string(hash),
	})
	if errors.Is(err, memdb.ErrDuplicate) {
		return nil, errAccountExists
	}
	if err != nil {
		return nil, err
	}
	account := stored.Account
	return &account, nil
}

// Get retrieves an account by ID.
func (s *AccountService) Get(id string) (*Account, error) {
	if id == "" {
		return nil, errAccountIDEmpty
	}
	stored, ok := s.table.Get(id)
	if !ok {
		return nil, errAccountNotFound
	}
	account := stored.Account
	return &account, nil
}

// GetByEmail retrieves an account by email. O(1) via index.
func (s *AccountService) GetByEmail(email string) (*Account, error) {
	stored, ok := s.byEmail.Get(records.NormalizeEmail(email))
	if !ok {
		return nil, errAccountNotFound
	}
	account := stored.Account
	return &account, nil
}

// Authenticate verifies account credentials. O(1) lookup via index.
//
// Unknown emails and wrong passwords return the same error.
func (s *AccountService) Authenticate(email, password string) (*Account, error) {
	stored, ok := s.byEmail.Get(records.NormalizeEmail(email))
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	account := stored.Account
	return &account, nil
}

// Len returns the number of accounts.
func (s *AccountService) Len() int {
	return s.table.Len()
}

// Iter iterates over all accounts in creation order.
func (s *AccountService) Iter() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		for stored := range s.table.All() {
			account := stored.Account
			if !yield(&account) {
				return
			}
		}
	}
}

//

var (
	errAccountIDEmpty   = errors.New("account id cannot be empty")
	errAccountNotFound  = errors.New("account not found")
	errAccountExists    = errors.New("account already exists")
	errEmailPwdRequired = errors.New("email and password are required")
	errInvalidRole      = errors.New("invalid role")
	// ErrInvalidCredentials is returned by Authenticate for any mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
