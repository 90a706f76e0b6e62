package auth

import (
	"math/bits"
	"strings"
)

// Scope is one capability an access token can grant. The set is closed:
// strings outside it never parse into a Scope.
type Scope uint16

const (
	ScopeOpenID Scope = 1 << iota
	ScopeProfile
	ScopePublicRead
	ScopePublicModify
	ScopePrivateRead
	ScopePrivateModify
	ScopeContactsRead
	ScopeContactsModify
	ScopeConversations
	ScopeInteractions
	ScopeTagsRead
	ScopeTagsModify
	ScopeNotifications

	scopeEnd
)

var scopeNames = map[Scope]string{
	ScopeOpenID:         "openid",
	ScopeProfile:        "profile",
	ScopePublicRead:     "public:read",
	ScopePublicModify:   "public:modify",
	ScopePrivateRead:    "private:read",
	ScopePrivateModify:  "private:modify",
	ScopeContactsRead:   "contacts:read",
	ScopeContactsModify: "contacts:modify",
	ScopeConversations:  "conversations",
	ScopeInteractions:   "interactions",
	ScopeTagsRead:       "tags:read",
	ScopeTagsModify:     "tags:modify",
	ScopeNotifications:  "notifications",
}

var scopesByName = func() map[string]Scope {
	m := make(map[string]Scope, len(scopeNames))
	for scope, name := range scopeNames {
		m[name] = scope
	}
	return m
}()

// String returns the wire name of the scope.
func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return "unknown"
}

// LookupScope resolves an exact, case-sensitive scope name.
func LookupScope(name string) (Scope, bool) {
	s, ok := scopesByName[name]
	return s, ok
}

// ScopeSet is a set of scopes.
type ScopeSet uint16

// NewScopeSet builds a set from the given scopes.
func NewScopeSet(scopes ...Scope) ScopeSet {
	var set ScopeSet
	for _, s := range scopes {
		set |= ScopeSet(s)
	}
	return set
}

// AllScopes contains every known scope.
func AllScopes() ScopeSet {
	return ScopeSet(scopeEnd - 1)
}

// ParseScopes reads a space separated scope list. Names that are not part
// of the closed set are returned separately and never granted.
func ParseScopes(raw string) (ScopeSet, []string) {
	var (
		set     ScopeSet
		unknown []string
	)
	for _, name := range strings.Fields(raw) {
		s, ok := LookupScope(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		set |= ScopeSet(s)
	}
	return set, unknown
}

// Has reports whether s is in the set.
func (set ScopeSet) Has(s Scope) bool {
	return set&ScopeSet(s) != 0
}

// Contains reports whether every scope of required is in the set.
func (set ScopeSet) Contains(required ScopeSet) bool {
	return set&required == required
}

// Missing returns the scopes of required that the set lacks.
func (set ScopeSet) Missing(required ScopeSet) ScopeSet {
	return required &^ set
}

// Len returns the number of scopes in the set.
func (set ScopeSet) Len() int {
	return bits.OnesCount16(uint16(set))
}

// Scopes lists the members in declaration order.
func (set ScopeSet) Scopes() []Scope {
	out := make([]Scope, 0, set.Len())
	for s := ScopeOpenID; s < scopeEnd; s <<= 1 {
		if set.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// String renders the set as a space separated list, the format of the
// token's scope claim.
func (set ScopeSet) String() string {
	scopes := set.Scopes()
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return strings.Join(names, " ")
}
