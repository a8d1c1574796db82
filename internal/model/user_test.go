package model

import "testing"

// TestRole_IsValid はロール値の検証を確認する。
func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, true},
		{RoleAdmin, true},
		{Role("superuser"), false},
		{Role(""), false},
		{Role("Admin"), false},
	}

	for _, tt := range tests {
		if got := tt.role.IsValid(); got != tt.want {
			t.Errorf("Role(%q).IsValid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}
