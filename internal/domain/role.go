package domain

import "time"

// RoleName identifies one of the built-in roles.
type RoleName string

const (
	RoleAdministrator RoleName = "administrator"
	RoleAgent         RoleName = "agent"
)

// Permission strings gate individual operations. Custom roles carry an
// arbitrary subset; default roles carry the fixed sets below.
const (
	PermInboxManage       = "inbox:manage"
	PermInboxView         = "inbox:view"
	PermTeamManage        = "team:manage"
	PermTeamView          = "team:view"
	PermAgentManage       = "agent:manage"
	PermRoleManage        = "role:manage"
	PermAPIKeyManage      = "api_key:manage"
	PermCustomFieldManage = "custom_field:manage"
	PermJobView           = "job:view"
	PermBillingView       = "billing:view"
	PermAdminister        = "administer"
)

// DefaultRolePermissions maps built-in roles to their permission sets.
// These are process-wide constants, never persisted.
var DefaultRolePermissions = map[RoleName][]string{
	RoleAdministrator: {
		PermInboxManage, PermInboxView,
		PermTeamManage, PermTeamView,
		PermAgentManage, PermRoleManage,
		PermAPIKeyManage, PermCustomFieldManage,
		PermJobView, PermBillingView,
		PermAdminister,
	},
	RoleAgent: {
		PermInboxView, PermTeamView, PermJobView,
	},
}

// CustomRole is an account-scoped, mutable named permission set.
type CustomRole struct {
	ID          string
	AccountID   string
	Name        string
	Description string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission reports whether the role grants the permission.
func (r *CustomRole) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
