// Package permissions maps user roles to capability checks. All functions
// are pure; callers load the role from storage and consult the policy.
package permissions

import "inkwell/internal/models"

// HasRole reports whether role satisfies required. Admins satisfy every
// capability; an empty (absent) role satisfies none.
func HasRole(role, required models.Role) bool {
	if role == "" {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return role == required
}

// IsAdmin reports whether role is the administrator role.
func IsAdmin(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanManageOwnPosts reports whether role may create/edit/delete posts it authored.
func CanManageOwnPosts(role models.Role) bool {
	return HasRole(role, models.RolePoster)
}

// CanManageAllPosts reports whether role may moderate any post.
func CanManageAllPosts(role models.Role) bool {
	return IsAdmin(role)
}

// CanManageUsers reports whether role may update or delete user accounts.
func CanManageUsers(role models.Role) bool {
	return IsAdmin(role)
}

// CanAccessAdmin reports whether role may reach the admin surface at all.
func CanAccessAdmin(role models.Role) bool {
	return IsAdmin(role)
}
