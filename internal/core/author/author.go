// Package author normalizes free-form commit author strings and applies
// the domain allow policy.
// This is part of the functional core - no I/O, only pure functions.
package author

import "strings"

// Identity is the normalized form of a commit author string.
type Identity struct {
	Raw    string
	Name   string
	Email  string
	Domain string
	// Username is the tracker account matched by ResolveUsername,
	// empty when no directory entry matches.
	Username string
}

// User is one entry of the tracker user directory.
type User struct {
	Username string
	Name     string
	Email    string
}

// Split parses the forms "Name <email>", "email", and "plain-name".
// Without an '@' all three results are empty: a plain name carries no
// domain to gate on. The domain is lower-cased.
func Split(raw string) (name, email, domain string) {
	at := strings.Index(raw, "@")
	if at < 0 {
		return "", "", ""
	}

	start := strings.LastIndex(raw[:at], "<")
	end := strings.Index(raw[at:], ">")
	if end < 0 {
		end = len(raw)
	} else {
		end += at
	}

	if start >= 0 {
		name = strings.TrimSpace(raw[:start])
		email = raw[start+1 : end]
	} else {
		email = raw[:end]
	}
	domain = strings.ToLower(raw[at+1 : end])
	return name, email, domain
}

// IsAllowed applies the author-domain policy. An empty allow-list allows
// everyone. Otherwise the author must carry an extractable domain that is
// in the list: an address without a domain is denied (fail-closed).
func IsAllowed(raw string, allowedDomains []string) bool {
	if len(allowedDomains) == 0 {
		return true
	}
	_, _, domain := Split(raw)
	if domain == "" {
		return false
	}
	for _, d := range allowedDomains {
		if domain == strings.ToLower(d) {
			return true
		}
	}
	return false
}

// ResolveUsername maps an author string to a known tracker account. The
// author's email (or the raw string when no email is present) is compared
// case-insensitively against every user's email, then against the
// username. First match wins; empty when nothing matches.
func ResolveUsername(raw string, users []User) string {
	_, email, _ := Split(raw)
	if email == "" {
		email = raw
	}
	for _, u := range users {
		if u.Email != "" && strings.EqualFold(email, u.Email) {
			return u.Username
		}
	}
	for _, u := range users {
		if strings.EqualFold(email, u.Username) {
			return u.Username
		}
	}
	return ""
}

// Resolve builds the full identity for an author string.
func Resolve(raw string, users []User) Identity {
	name, email, domain := Split(raw)
	return Identity{
		Raw:      raw,
		Name:     name,
		Email:    email,
		Domain:   domain,
		Username: ResolveUsername(raw, users),
	}
}
