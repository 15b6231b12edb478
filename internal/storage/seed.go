// Loads the initial accounts and records from a YAML seed file.

package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/maruel/admindash/internal/storage/entity"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedNone is the LoadSeed path that yields an empty seed.
const SeedNone = "none"

// Seed defines the data loaded at startup.
type Seed struct {
	Accounts []SeedAccount `yaml:"accounts"`
	Users    []SeedUser    `yaml:"users"`
	Products []SeedProduct `yaml:"products"`
}

// SeedAccount is an operator account to create.
type SeedAccount struct {
	Email    string          `yaml:"email"`
	Password string          `yaml:"password"`
	Name     string          `yaml:"name"`
	Role     entity.UserRole `yaml:"role"`
}

// SeedUser is a user record to create.
type SeedUser struct {
	Name  string          `yaml:"name"`
	Email string          `yaml:"email"`
	Role  entity.UserRole `yaml:"role,omitempty"`
}

// SeedProduct is a product record to create.
type SeedProduct struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description,omitempty"`
	Price       float64 `yaml:"price"`
	Category    *string `yaml:"category,omitempty"`
}

// LoadSeed reads a seed file. An empty path returns the embedded default
// seed; SeedNone returns an empty seed.
// The path is provided by the CLI user, so file inclusion is expected.
func LoadSeed(path string) (*Seed, error) {
	var data []byte
	switch path {
	case "":
		data = defaultSeed
	case SeedNone:
		return &Seed{}, nil
	default:
		var err error
		if data, err = os.ReadFile(path); err != nil { //nolint:gosec // User-specified seed path
			return nil, fmt.Errorf("failed to read seed: %w", err)
		}
	}
	return ParseSeed(data)
}

// ParseSeed parses and validates seed YAML.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return &seed, nil
}

// Validate checks that every entry has its required fields.
func (s *Seed) Validate() error {
	for i, a := range s.Accounts {
		if a.Email == "" || a.Password == "" {
			return fmt.Errorf("accounts[%d]: email and password are required", i)
		}
		if !a.Role.IsValid() {
			return fmt.Errorf("accounts[%d]: invalid role %q", i, a.Role)
		}
	}
	for i, u := range s.Users {
		if u.Name == "" || u.Email == "" {
			return fmt.Errorf("users[%d]: name and email are required", i)
		}
		if u.Role != "" && !u.Role.IsValid() {
			return fmt.Errorf("users[%d]: invalid role %q", i, u.Role)
		}
	}
	for i, p := range s.Products {
		if p.Name == "" {
			return fmt.Errorf("products[%d]: name is required", i)
		}
		if p.Price < 0 {
			return fmt.Errorf("products[%d]: price must be non-negative", i)
		}
	}
	return nil
}

// OverrideAdmin replaces the credentials of the first admin account. Empty
// values are left as is. Adds an admin account when the seed has none and
// both values are set.
func (s *Seed) OverrideAdmin(email, password string) {
	for i := range s.Accounts {
		if s.Accounts[i].Role == entity.UserRoleAdmin {
			if email != "" {
				s.Accounts[i].Email = email
			}
			if password != "" {
				s.Accounts[i].Password = password
			}
			return
		}
	}
	if email != "" && password != "" {
		s.Accounts = append(s.Accounts, SeedAccount{Email: email, Password: password, Name: "Admin", Role: entity.UserRoleAdmin})
	}
}

// Apply creates the seed's accounts and records in order.
func (s *Seed) Apply(accounts *identity.AccountService, users *records.UserService, products *records.ProductService) error {
	var errs []error
	for _, a := range s.Accounts {
		if _, err := accounts.Create(a.Email, a.Password, a.Name, a.Role); err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", a.Email, err))
		}
	}
	for _, u := range s.Users {
		if _, err := users.Create(records.UserFields{Name: u.Name, Email: u.Email, Role: u.Role}); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", u.Email, err))
		}
	}
	for _, p := range s.Products {
		f := records.ProductFields{Name: p.Name, Description: p.Description, Price: p.Price, Category: p.Category}
		if _, err := products.Create(f); err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}
