package entity

import "testing"

func TestUserRole(t *testing.T) {
	tests := []struct {
		role  UserRole
		valid bool
		title string
	}{
		{UserRoleAdmin, true, "Admin"},
		{UserRoleEditor, true, "Editor"},
		{UserRoleViewer, true, "Viewer"},
		{"owner", false, "Owner"},
		{"ADMIN", false, "ADMIN"},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.role.Title(); got != tt.title {
				t.Errorf("Title() = %q, want %q", got, tt.title)
			}
		})
	}
}

func TestUserRoleSatisfies(t *testing.T) {
	tests := []struct {
		have, need UserRole
		want       bool
	}{
		{UserRoleAdmin, UserRoleAdmin, true},
		{UserRoleAdmin, UserRoleEditor, true},
		{UserRoleAdmin, UserRoleViewer, true},
		{UserRoleEditor, UserRoleAdmin, false},
		{UserRoleEditor, UserRoleEditor, true},
		{UserRoleEditor, UserRoleViewer, true},
		{UserRoleViewer, UserRoleEditor, false},
		{UserRoleViewer, UserRoleViewer, true},
		{"", UserRoleViewer, false},
		{"root", UserRoleViewer, false},
	}
	for _, tt := range tests {
		if got := tt.have.Satisfies(tt.need); got != tt.want {
			t.Errorf("%q.Satisfies(%q) = %v, want %v", tt.have, tt.need, got, tt.want)
		}
	}
}
