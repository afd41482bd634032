package model

import "time"

// User is the local record for an identity-provider account.  GoogleID is
// the provider's stable subject and is nil for users created by an
// administrator.
type User struct {
	ID        string    `json:"id"`                  // users.id (UUID)
	Email     string    `json:"email"`               // users.email
	GoogleID  *string   `json:"google_id,omitempty"` // users.google_id (nullable, unique)
	CreatedAt time.Time `json:"created_at"`          // users.created_at
}
