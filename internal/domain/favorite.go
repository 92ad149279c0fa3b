package domain

import "time"

// Favorite marks a design as saved by a viewer. Design is populated on
// listings and is nil when the referenced design no longer exists.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DesignID  string    `json:"design_id"`
	CreatedAt time.Time `json:"created_at"`
	Design    *Design   `json:"design,omitempty"`
}
