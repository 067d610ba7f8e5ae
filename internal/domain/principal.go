package domain

import (
	"slices"
	"strings"
)

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

var Roles = []string{RoleStudent, RoleFaculty, RoleAdmin}

// Principal is the caller identity resolved from the request. It lives for one request only.
type Principal struct {
	IdentityProvider string   `json:"identityProvider"`
	UserID           string   `json:"userId"`
	UserDetails      string   `json:"userDetails"`
	UserRoles        []string `json:"userRoles"`
}

func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.UserID != ""
}

func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.UserRoles, role)
}

func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// DisplayName falls back to a placeholder when the provider sent no details.
func (p *Principal) DisplayName() string {
	if p == nil || p.UserDetails == "" {
		return "Unknown User"
	}
	return p.UserDetails
}

// Email returns the user details when the provider used the e-mail address as details.
func (p *Principal) Email() string {
	if p == nil || !strings.Contains(p.UserDetails, "@") {
		return ""
	}
	return p.UserDetails
}
