package models

import (
	"time"
)

// Role is the privilege level of an identity
type Role string

const (
	RoleNone  Role = "none"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// IsElevated reports whether the role grants admin privileges
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleOwner
}

// AdminGrant is a dynamically granted admin or owner privilege
type AdminGrant struct {
	Identity    string    `db:"identity"`
	DisplayName string    `db:"display_name"`
	Role        Role      `db:"role"`
	Banned      bool      `db:"banned"`
	GrantedBy   string    `db:"granted_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// AdminLogEntry is one append-only audit record of a privileged action
type AdminLogEntry struct {
	ID            int64     `db:"id"`
	ActorIdentity string    `db:"actor_identity"`
	Action        string    `db:"action"`
	CreatedAt     time.Time `db:"created_at"`
}

// AdminLogFilter narrows an admin log query. Zero values mean no constraint.
type AdminLogFilter struct {
	Actor    string
	Since    time.Time
	Until    time.Time
	PageSize int
}
