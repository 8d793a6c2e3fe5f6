package models

import (
	"time"
)

// User represents a user in the system. Identity resolution is an external
// collaborator's job: this core only consumes the resolved user id.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidRoles defines allowed user roles. The role is stored but not
// enforced here; authorization policy lives with the caller.
var ValidRoles = map[string]bool{
	"user":   true,
	"author": true,
	"admin":  true,
}

// SaveResult reports the outcome of a save-article operation
type SaveResult struct {
	Saved        bool `json:"saved"`
	AlreadySaved bool `json:"already_saved,omitempty"`
}

// UnsaveResult reports the outcome of an unsave-article operation
type UnsaveResult struct {
	Saved    bool `json:"saved"`
	WasSaved bool `json:"was_saved"`
}

// EngagementStatus reports per-article like/save membership for one user
type EngagementStatus struct {
	ArticleID string `json:"article_id"`
	Liked     bool   `json:"liked"`
	Saved     bool   `json:"saved"`
}
