package auth

import (
	"reflect"
	"testing"
)

func TestNormalizeRoles(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty falls back to default", nil, []string{"user"}},
		{"whitespace only falls back to default", []string{"  ", ""}, []string{"user"}},
		{"lowercased and trimmed", []string{" Admin ", "EDITOR"}, []string{"admin", "editor"}},
		{"deduped", []string{"admin", "admin", "Admin"}, []string{"admin"}},
		{"sorted", []string{"viewer", "admin", "editor"}, []string{"admin", "editor", "viewer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRoles(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
