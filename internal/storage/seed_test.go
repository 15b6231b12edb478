package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maruel/admindash/internal/storage/entity"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
)

func TestLoadSeed(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		seed, err := LoadSeed("")
		if err != nil {
			t.Fatal(err)
		}
		if len(seed.Accounts) != 3 || len(seed.Users) != 3 || len(seed.Products) != 3 {
			t.Fatalf("seed = %d accounts, %d users, %d products", len(seed.Accounts), len(seed.Users), len(seed.Products))
		}
		p := seed.Products[0]
		if p.Name != "Wireless Headphones" || p.Price != 2990 || p.Category == nil || *p.Category != "Electronics" {
			t.Errorf("Products[0] = %+v", p)
		}
	})

	t.Run("None", func(t *testing.T) {
		seed, err := LoadSeed(SeedNone)
		if err != nil {
			t.Fatal(err)
		}
		if len(seed.Accounts)+len(seed.Users)+len(seed.Products) != 0 {
			t.Errorf("seed = %+v, want empty", seed)
		}
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		data := "products:\n  - name: Cable\n    price: 5\n"
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		seed, err := LoadSeed(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(seed.Products) != 1 || seed.Products[0].Category != nil {
			t.Errorf("Products = %+v", seed.Products)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestParseSeedInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "accounts: [\n"},
		{"account role", "accounts:\n  - {email: a@b.c, password: x, role: root}\n"},
		{"account password", "accounts:\n  - {email: a@b.c, role: admin}\n"},
		{"user email", "users:\n  - {name: A}\n"},
		{"user role", "users:\n  - {name: A, email: a@b.c, role: boss}\n"},
		{"product name", "products:\n  - {price: 1}\n"},
		{"product price", "products:\n  - {name: A, price: -1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSeedOverrideAdmin(t *testing.T) {
	seed, err := LoadSeed("")
	if err != nil {
		t.Fatal(err)
	}
	seed.OverrideAdmin("root@example.com", "")
	if seed.Accounts[0].Email != "root@example.com" || seed.Accounts[0].Password != "admin123" {
		t.Errorf("Accounts[0] = %+v", seed.Accounts[0])
	}

	empty := &Seed{}
	empty.OverrideAdmin("root@example.com", "")
	if len(empty.Accounts) != 0 {
		t.Error("partial override must not add an account")
	}
	empty.OverrideAdmin("root@example.com", "secret")
	if len(empty.Accounts) != 1 || empty.Accounts[0].Role != entity.UserRoleAdmin {
		t.Errorf("Accounts = %+v", empty.Accounts)
	}
}

func TestSeedApply(t *testing.T) {
	seed, err := ParseSeed([]byte(`
accounts:
  - {email: admin@example.com, password: pw, name: Admin, role: admin}
users:
  - {name: A, email: a@example.com, role: editor}
  - {name: B, email: A@example.com}
products:
  - {name: Lamp, price: 10, category: Office}
`))
	if err != nil {
		t.Fatal(err)
	}
	accounts := identity.NewAccountService()
	users := records.NewUserService()
	products := records.NewProductService()
	// The duplicate user is reported but does not stop the rest.
	if err := seed.Apply(accounts, users, products); err == nil {
		t.Error("expected duplicate email error")
	}
	if accounts.Len() != 1 || users.Len() != 1 || products.Len() != 1 {
		t.Errorf("got %d accounts, %d users, %d products", accounts.Len(), users.Len(), products.Len())
	}
	if _, err := accounts.Authenticate("admin@example.com", "pw"); err != nil {
		t.Errorf("Authenticate: %v", err)
	}
}
