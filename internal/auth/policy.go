package auth

import (
	"strings"
)

// Policy decides admin rights from the configured allow-list. This is
// the only place admin status is computed: it runs at every login and
// the result is never read back from storage or any remote response.
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy builds the policy from the configured admin emails
func NewPolicy(adminEmails []string) *Policy {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = struct{}{}
		}
	}
	return &Policy{allowed: allowed}
}

// IsAdmin reports whether the email is on the allow-list,
// compared case-insensitively
func (p *Policy) IsAdmin(email string) bool {
	_, ok := p.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
