package core

import "fmt"

// Role is the closed set of positions a member can hold in the group.
// Capability checks live here so handlers and services never compare
// role strings directly.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleChairperson     Role = "chairperson"
	RoleViceChairperson Role = "vice_chairperson"
	RoleTreasurer       Role = "treasurer"
	RoleCoordinator     Role = "coordinator"
	RoleSecretary       Role = "secretary"
	RoleInvestmentLead  Role = "investment_lead"
	RoleMember          Role = "member"
	RolePending         Role = "pending"
)

var allRoles = []Role{
	RoleAdmin,
	RoleChairperson,
	RoleViceChairperson,
	RoleTreasurer,
	RoleCoordinator,
	RoleSecretary,
	RoleInvestmentLead,
	RoleMember,
	RolePending,
}

func ParseRole(s string) (Role, error) {
	for _, r := range allRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanApproveMembers reports whether the role takes part in the
// dual-approval activation of pending members.
func (r Role) CanApproveMembers() bool {
	return r == RoleTreasurer || r == RoleChairperson || r == RoleAdmin
}

// CanManageFinances covers contribution recording, income and
// expenditure bookkeeping.
func (r Role) CanManageFinances() bool {
	return r == RoleTreasurer || r == RoleAdmin
}

// CanManageMembers covers role changes and deleting pending
// registrations.
func (r Role) CanManageMembers() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
