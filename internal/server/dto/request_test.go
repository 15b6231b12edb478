package dto

import (
	"errors"
	"testing"
)

func ptr[T any](v T) *T {
	return &v
}

// fields runs the body checks of an update request.
type fields struct {
	r interface{ ValidateFields() error }
}

func (f fields) Validate() error {
	return f.r.ValidateFields()
}

func TestRequestValidate(t *testing.T) {
	price := NewPrice(10)
	tests := []struct {
		name    string
		req     Validatable
		wantErr string
	}{
		{"login ok", &LoginRequest{Email: "a@b.co", Password: "x"}, ""},
		{"login no email", &LoginRequest{Password: "x"}, "Email is required"},
		{"login no password", &LoginRequest{Email: "a@b.co"}, "Password is required"},

		{"create user ok", &CreateUserRequest{Name: "A", Email: "a@b.co"}, ""},
		{"create user role", &CreateUserRequest{Name: "A", Email: "a@b.co", Role: ptr(UserRoleEditor)}, ""},
		{"create user empty role", &CreateUserRequest{Name: "A", Email: "a@b.co", Role: ptr(UserRole(""))}, ""},
		{"create user blank name", &CreateUserRequest{Name: "  ", Email: "a@b.co"}, "Name is required"},
		{"create user no email", &CreateUserRequest{Name: "A"}, "Email is required"},
		{"create user bad email", &CreateUserRequest{Name: "A", Email: "a@b"}, "Invalid email format"},
		{"create user spaced email", &CreateUserRequest{Name: "A", Email: "a b@c.de"}, "Invalid email format"},
		{"create user bad role", &CreateUserRequest{Name: "A", Email: "a@b.co", Role: ptr(UserRole("root"))}, "Invalid role"},

		{"update user empty", &UpdateUserRequest{ID: "1"}, ""},
		{"update user no id", &UpdateUserRequest{}, "Id is required"},
		{"update user blank name", fields{&UpdateUserRequest{ID: "1", Name: ptr("")}}, "Name is required"},
		{"update user bad email", fields{&UpdateUserRequest{ID: "1", Email: ptr("nope")}}, "Invalid email format"},
		{"update user clear role", fields{&UpdateUserRequest{ID: "1", Role: ptr(UserRole(""))}}, ""},

		{"create product ok", &CreateProductRequest{Name: "Lamp", Price: &price}, ""},
		{"create product no name", &CreateProductRequest{Price: &price}, "Name is required"},
		{"create product no price", &CreateProductRequest{Name: "Lamp"}, "Valid price is required"},
		{"create product bad price", &CreateProductRequest{Name: "Lamp", Price: &Price{}}, "Valid price is required"},

		{"update product empty", &UpdateProductRequest{ID: "1"}, ""},
		{"update product bad price unchecked by path", &UpdateProductRequest{ID: "1", Price: &Price{}}, ""},
		{"update product no id", &UpdateProductRequest{}, "Id is required"},
		{"update product blank name", fields{&UpdateProductRequest{ID: "1", Name: ptr(" ")}}, "Name is required"},
		{"update product bad price", fields{&UpdateProductRequest{ID: "1", Price: &Price{}}}, "Valid price is required"},
		{"update product blank category", fields{&UpdateProductRequest{ID: "1", Category: ptr("")}}, ""},

		{"schema no kind", &GetSchemaRequest{}, "Kind is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Validate() = %v, want *APIError", err)
			}
			if apiErr.Message() != tt.wantErr {
				t.Errorf("Message() = %q, want %q", apiErr.Message(), tt.wantErr)
			}
			if apiErr.StatusCode() != 400 {
				t.Errorf("StatusCode() = %d", apiErr.StatusCode())
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	for _, tt := range []struct {
		email string
		want  bool
	}{
		{"test@example.com", true},
		{" Test@Example.com ", true},
		{"a@b.c", true},
		{"a@b", false},
		{"@b.co", false},
		{"a@@b.co", false},
		{"", false},
	} {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
