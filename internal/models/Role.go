package models

import "errors"

// Role is the closed set of account roles.
type Role string

const (
	RoleDriver Role = "driver"
	RoleHelper Role = "helper"
	RoleAdmin  Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole accepts only the exact role names.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleDriver, RoleHelper, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// EarnsCommission reports whether the role accrues deliveries.
func (r Role) EarnsCommission() bool {
	return r == RoleDriver || r == RoleHelper
}

var roles = []Role{RoleDriver, RoleHelper, RoleAdmin}

// CommissionRoles lists the roles whose members appear in payroll views.
func CommissionRoles() []Role {
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		if r.EarnsCommission() {
			out = append(out, r)
		}
	}
	return out
}
