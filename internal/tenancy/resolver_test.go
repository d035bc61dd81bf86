package tenancy

import "testing"

func TestSubdomainFromHost(t *testing.T) {
	tests := []struct {
		host string
		base string
		want string
	}{
		{"acme.example.com", "example.com", "acme"},
		{"acme.example.com:8080", "example.com", "acme"},
		{"ACME.Example.com", "example.com", "acme"},
		{"example.com", "example.com", ""},
		{"example.com:443", "example.com", ""},
		{"acme.other.com", "example.com", ""},
		{"deep.acme.example.com", "example.com", ""},
		{"", "example.com", ""},
		{"acme.localhost", "localhost", "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := SubdomainFromHost(tt.host, tt.base); got != tt.want {
				t.Errorf("SubdomainFromHost(%q, %q) = %q, want %q", tt.host, tt.base, got, tt.want)
			}
		})
	}
}
