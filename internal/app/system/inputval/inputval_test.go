package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.co", true},
		{"organizer@test.org", true},
		{"admin@mailserver", true}, // single-label domains are allowed

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},
		{" user@example.com", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"@", false},

		// Invalid emails - the loose "contains @" check used to let these through
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},
		{"a@b@c.com", false},

		// Invalid emails - display name format
		{"User Name <user@example.com>", false},

		// Invalid emails - other malformed
		{"user @example.com", false},
		{"user@ example.com", false},
		{"user@exam ple.com", false},
		{`"quoted"@example.com`, false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
