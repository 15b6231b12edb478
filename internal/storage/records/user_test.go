package records

import (
	"errors"
	"testing"

	"github.com/maruel/admindash/internal/storage/entity"
)

func ptr[T any](v T) *T {
	return &v
}

func TestUserService(t *testing.T) {
	service := NewUserService()

	// Test Create
	user, err := service.Create(UserFields{Name: " Test User ", Email: " Test@Example.com ", Role: entity.UserRoleEditor})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.Email != "test@example.com" {
		t.Errorf("Expected email test@example.com, got %s", user.Email)
	}
	if user.Name != "Test User" {
		t.Errorf("Expected name %q, got %q", "Test User", user.Name)
	}

	// Test Get
	retrieved, err := service.Get(user.ID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if retrieved.ID != user.ID || retrieved.Role != entity.UserRoleEditor {
		t.Errorf("Expected %+v, got %+v", user, retrieved)
	}

	// Test GetByEmail
	byEmail, err := service.GetByEmail("TEST@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("Expected user ID %s, got %s", user.ID, byEmail.ID)
	}
	if _, err := service.GetByEmail("test@example"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByEmail must be an exact match, got %v", err)
	}

	// Test duplicate user creation
	if _, err := service.Create(UserFields{Name: "Other", Email: "TEST@EXAMPLE.COM"}); !errors.Is(err, ErrEmailInUse) {
		t.Errorf("Expected ErrEmailInUse, got %v", err)
	}
	if service.Len() != 1 {
		t.Errorf("Expected 1 user, got %d", service.Len())
	}

	// An email containing another one is not a duplicate.
	other, err := service.Create(UserFields{Name: "Other", Email: "untest@example.com"})
	if err != nil {
		t.Fatalf("Failed to create user with superstring email: %v", err)
	}

	// Test Update
	updated, err := service.Update(other.ID, UserPatch{Role: ptr(entity.UserRoleAdmin)})
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if updated.Role != entity.UserRoleAdmin || updated.Name != "Other" || updated.Email != "untest@example.com" {
		t.Errorf("Unexpected update result %+v", updated)
	}
	if _, err := service.Update(other.ID, UserPatch{Email: ptr("test@example.com")}); !errors.Is(err, ErrEmailInUse) {
		t.Errorf("Expected ErrEmailInUse on update, got %v", err)
	}
	if _, err := service.Update(other.ID, UserPatch{Email: ptr(" UNTEST@example.com ")}); err != nil {
		t.Errorf("Updating to own email failed: %v", err)
	}
	if _, err := service.Update("404", UserPatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// Test search
	rows, total := service.List(1, 10, "OTHER")
	if total != 1 || len(rows) != 1 || rows[0].ID != other.ID {
		t.Errorf("List(OTHER) = %v, %d", rows, total)
	}
	if _, total := service.List(1, 10, "example.com"); total != 2 {
		t.Errorf("List by email domain total = %d, want 2", total)
	}

	// Test Delete
	if !service.Delete(user.ID) {
		t.Error("Delete returned false")
	}
	if service.Delete(user.ID) {
		t.Error("Second delete returned true")
	}
	if _, err := service.Get(user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	// The email is free again.
	if _, err := service.Create(UserFields{Name: "Again", Email: "test@example.com"}); err != nil {
		t.Errorf("Re-creating a deleted email failed: %v", err)
	}
}

func TestUserServiceClearRole(t *testing.T) {
	service := NewUserService()
	user, err := service.Create(UserFields{Name: "A", Email: "a@example.com", Role: entity.UserRoleViewer})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := service.Update(user.ID, UserPatch{Role: ptr(entity.UserRole(""))})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Role != "" {
		t.Errorf("Role = %q, want cleared", updated.Role)
	}
}
