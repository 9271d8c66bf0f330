package auth

import "albumdex/internal/model"

// permAll grants every permission.
const permAll model.Permission = "all"

var rolePermissions = map[model.Role][]model.Permission{
	model.RoleSuperAdmin: {permAll},
	model.RoleAdmin: {
		model.PermUsersRead,
		model.PermUsersManage,
		model.PermUsersDelete,
		model.PermContentManage,
		model.PermSettingsView,
	},
	model.RoleEditor: {
		model.PermContentCreate,
		model.PermContentEdit,
		model.PermContentDelete,
		model.PermContentView,
	},
	model.RoleUser: {model.PermContentView},

	// Credentials without roles: any logged-in user may do everything the
	// catalog offers, including adding users.
	model.RoleNone: {
		model.PermContentManage,
		model.PermContentCreate,
		model.PermContentEdit,
		model.PermContentDelete,
		model.PermContentView,
		model.PermUsersManage,
	},
}

// RoleAllows reports whether role grants perm. content:manage implies every
// other content permission.
func RoleAllows(role model.Role, perm model.Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == permAll || p == perm {
			return true
		}
		if p == model.PermContentManage && isContentPermission(perm) {
			return true
		}
	}
	return false
}

// Permissions returns the permissions granted to role.
func Permissions(role model.Role) []model.Permission {
	return append([]model.Permission(nil), rolePermissions[role]...)
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role model.Role) bool {
	_, ok := rolePermissions[role]
	return ok
}

func isContentPermission(perm model.Permission) bool {
	switch perm {
	case model.PermContentCreate, model.PermContentEdit, model.PermContentDelete, model.PermContentView:
		return true
	}
	return false
}
