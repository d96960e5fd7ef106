// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "strings"

// Role is the access level a grant carries. Roles outside the built-in set
// are opaque and only matched by allow-list membership.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleAdmin       Role = "admin"
	RoleContributor Role = "contributor"
	// RoleNone is the pseudo-role of an actor holding no grant.
	RoleNone Role = "none"
)

// In reports whether r is a member of allowed.
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}

// ParseRole normalizes s into a Role. Empty input yields RoleNone.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleNone
	}
	return Role(s)
}

// ParseRoles converts a list of strings, dropping empty entries.
func ParseRoles(ss []string) []Role {
	out := make([]Role, 0, len(ss))
	for _, s := range ss {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, ParseRole(s))
	}
	return out
}
