package andromeda

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Name
		want string
	}{
		{"strips get", "getExternalId", "externalId"},
		{"strips is", "isRent", "rent"},
		{"strips has", "hasConflict", "conflict"},
		{"plain field untouched but lowercased", "Description", "description"},
		{"already lowercase plain field", "description", "description"},
		{"get without following uppercase is not a prefix", "getter", "getter"},
		{"empty string", "", ""},
		{"bare prefix is not stripped", "get", "get"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
