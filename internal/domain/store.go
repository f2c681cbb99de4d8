package domain

import "time"

// Store represents a rateable store. OwnerID links the store to a
// store_owner user; stores created before an owner is assigned have none.
type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
