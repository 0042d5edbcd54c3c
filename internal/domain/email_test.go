package domain

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		name  string
		email string
		ok    bool
	}{
		{"plain", "niwatarou@gmail.com", true},
		{"dotted local", "first.last@example.co.uk", true},
		{"plus tag", "user+quiz@example.com", true},
		{"apostrophe", "o'neil@example.org", true},
		{"empty", "", false},
		{"no at", "testtest.test", false},
		{"no dot in domain", "test@testtest", false},
		{"no local", "@example.com", false},
		{"empty tld", "user@example.", false},
		{"two ats", "a@b@example.com", false},
		{"quoted local", `test"123"@test.test`, false},
		{"display name", "Bob <bob@example.com>", false},
		{"leading dot", ".bob@example.com", false},
		{"double dot", "bo..b@example.com", false},
		{"hyphen label", "bob@-example.com", false},
		{"space", "bo b@example.com", false},
		{"long local", strings.Repeat("a", 256) + "@example.com", false},
		{"local at limit", strings.Repeat("a", 64) + "@example.com", true},
		{"local over limit", strings.Repeat("a", 65) + "@example.com", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEmail(tc.email)
			if tc.ok && err != nil {
				t.Fatalf("expected %q to be valid, got %v", tc.email, err)
			}
			if !tc.ok && err != ErrInvalidEmail {
				t.Fatalf("expected %q to be rejected, got %v", tc.email, err)
			}
		})
	}
}

func TestValidateEmailTotalLength(t *testing.T) {
	label := strings.Repeat("d", 63)
	host := strings.Join([]string{label, label, label, label}, ".") + ".com"
	if err := ValidateEmail("a@" + host); err != ErrInvalidEmail {
		t.Fatalf("expected overlong address to be rejected, got %v", err)
	}
}
