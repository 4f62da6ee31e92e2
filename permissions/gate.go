// Package permissions maps a user's held capability tokens to yes/no
// answers for the UI layer. It is pure: the Set it is given is trusted as
// handed out at login, and nothing here talks to the server.
package permissions

import (
	"sort"
	"strings"
)

// Set is an immutable collection of capability tokens. Tokens are
// normalized to lower case at construction, so "READ:LEADS" and
// "read:leads" are the same capability.
type Set struct {
	tokens map[string]struct{}
}

// NewSet builds a Set from raw tokens.
func NewSet(tokens ...string) Set {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		m[t] = struct{}{}
	}
	return Set{tokens: m}
}

// Has reports whether the set holds ANY of the given tokens. Holding one of
// several equivalent permissions is enough to see a feature; this is OR,
// not AND. An empty query or an empty set is false.
func (s Set) Has(tokens ...string) bool {
	for _, t := range tokens {
		if _, ok := s.tokens[strings.ToLower(strings.TrimSpace(t))]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of held tokens.
func (s Set) Len() int { return len(s.tokens) }

// List returns the held tokens, sorted.
func (s Set) List() []string {
	out := make([]string, 0, len(s.tokens))
	for t := range s.tokens {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
