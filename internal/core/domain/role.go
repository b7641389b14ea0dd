package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Role is the coarse-grained permission class carried by every identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var ErrUnknownRole = errors.New("unknown role")

// Valid reports whether r is a member of the closed role enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a claim value into a Role, rejecting anything outside
// the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// AccessPolicy is the set of roles permitted to invoke one route. It is
// built once at route registration and only read afterwards.
type AccessPolicy struct {
	name    string
	allowed map[Role]struct{}
}

// NewAccessPolicy validates roles against the enumeration. An empty policy
// is rejected: it would make the route unreachable.
func NewAccessPolicy(name string, roles ...Role) (AccessPolicy, error) {
	if len(roles) == 0 {
		return AccessPolicy{}, fmt.Errorf("access policy %q: no roles", name)
	}
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			return AccessPolicy{}, fmt.Errorf("access policy %q: %w: %q", name, ErrUnknownRole, r)
		}
		allowed[r] = struct{}{}
	}
	return AccessPolicy{name: name, allowed: allowed}, nil
}

// MustAccessPolicy is NewAccessPolicy for startup wiring; it panics on a
// misdeclared policy so the service never starts with one.
func MustAccessPolicy(name string, roles ...Role) AccessPolicy {
	p, err := NewAccessPolicy(name, roles...)
	if err != nil {
		panic(err)
	}
	return p
}

// Allows reports whether role is a member of the policy.
func (p AccessPolicy) Allows(role Role) bool {
	_, ok := p.allowed[role]
	return ok
}

func (p AccessPolicy) Name() string { return p.name }

// Roles returns the permitted roles in a stable order.
func (p AccessPolicy) Roles() []Role {
	out := make([]Role, 0, len(p.allowed))
	for r := range p.allowed {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p AccessPolicy) String() string {
	roles := p.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return p.name + "{" + strings.Join(names, ",") + "}"
}
