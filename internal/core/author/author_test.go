package author

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantName   string
		wantEmail  string
		wantDomain string
	}{
		{
			name:       "name with angle-bracketed email",
			raw:        "User One <user1@example.org>",
			wantName:   "User One",
			wantEmail:  "user1@example.org",
			wantDomain: "example.org",
		},
		{
			name:       "bare email",
			raw:        "user1@example.org",
			wantName:   "",
			wantEmail:  "user1@example.org",
			wantDomain: "example.org",
		},
		{
			name:       "plain name without email",
			raw:        "test_person",
			wantName:   "",
			wantEmail:  "",
			wantDomain: "",
		},
		{
			name:       "missing closing bracket",
			raw:        "User One <user1@example.org",
			wantName:   "User One",
			wantEmail:  "user1@example.org",
			wantDomain: "example.org",
		},
		{
			name:       "domain is lower-cased",
			raw:        "User <me@EXAMPLE.ORG>",
			wantName:   "User",
			wantEmail:  "me@EXAMPLE.ORG",
			wantDomain: "example.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email, domain := Split(tt.raw)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if email != tt.wantEmail {
				t.Errorf("email = %q, want %q", email, tt.wantEmail)
			}
			if domain != tt.wantDomain {
				t.Errorf("domain = %q, want %q", domain, tt.wantDomain)
			}
		})
	}
}

func TestIsAllowed(t *testing.T) {
	domains := []string{"example.org", "mydomain.net"}

	tests := []struct {
		name    string
		raw     string
		domains []string
		want    bool
	}{
		{name: "empty allow-list allows everyone", raw: "anyone", domains: nil, want: true},
		{name: "allowed domain", raw: "test_person <me@mydomain.net>", domains: domains, want: true},
		{name: "denied domain", raw: "test_person <me@gohome.now>", domains: domains, want: false},
		{name: "no domain is denied", raw: "test_person", domains: domains, want: false},
		{name: "case-insensitive domain", raw: "me@EXAMPLE.ORG", domains: domains, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAllowed(tt.raw, tt.domains); got != tt.want {
				t.Errorf("IsAllowed(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveUsername(t *testing.T) {
	users := []User{
		{Username: "user1", Name: "User C", Email: "user1@example.org"},
		{Username: "user2", Name: "User A", Email: "user2@example.org"},
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "matches by email", raw: "User One <user1@example.org>", want: "user1"},
		{name: "matches bare email", raw: "user2@example.org", want: "user2"},
		{name: "email match is case-insensitive", raw: "USER1@EXAMPLE.ORG", want: "user1"},
		{name: "falls back to username", raw: "user2", want: "user2"},
		{name: "no match", raw: "stranger <x@nowhere.invalid>", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveUsername(tt.raw, users); got != tt.want {
				t.Errorf("ResolveUsername(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	users := []User{{Username: "user1", Email: "user1@example.org"}}

	id := Resolve("User One <user1@example.org>", users)
	if id.Raw != "User One <user1@example.org>" {
		t.Errorf("Raw = %q", id.Raw)
	}
	if id.Name != "User One" || id.Email != "user1@example.org" || id.Domain != "example.org" {
		t.Errorf("unexpected identity: %+v", id)
	}
	if id.Username != "user1" {
		t.Errorf("Username = %q, want user1", id.Username)
	}
}
