package domain

import "time"

// Role is the coarse-grained permission class attached to a user.
// It is the only authorization axis in the system.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleNormal     Role = "normal"
	RoleStoreOwner Role = "store_owner"
)

// IsValid checks if the role is a member of the closed role set.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleNormal, RoleStoreOwner:
		return true
	}
	return false
}

// User represents a registered account. Email is unique across all users;
// the database constraint is the final arbiter under concurrent signups.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
