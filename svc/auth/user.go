// Package auth handles account identity: password authentication, the role
// ladder, and the server-side mirror of each user's subscription. Every
// authentication event lands in the security trail.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role places a user on the access ladder. Subscription state moves users
// between free and pro; admin roles are assigned manually.
type Role string

const (
	RoleFreeUser   Role = "free_user"
	RoleProUser    Role = "pro_user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleFreeUser, RoleProUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Admin reports whether the role carries administrative access.
func (r Role) Admin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is an account record. PlanID and SubscriptionExpiresAt mirror the
// entitlement snapshot so account queries never need the entitlement store.
type User struct {
	ID                    uuid.UUID
	Email                 string
	Role                  Role
	PlanID                string
	SubscriptionExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Pro reports whether the mirrored subscription is active at now.
func (u *User) Pro(now time.Time) bool {
	if u.Role != RoleProUser {
		return false
	}
	return u.SubscriptionExpiresAt == nil || now.Before(*u.SubscriptionExpiresAt)
}
