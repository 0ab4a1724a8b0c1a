package entity

import "time"

// Result is the final assessment outcome attached to an approved application.
// At most one result exists per application.
type Result struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Description   string    `json:"description"`
	Link          *string   `json:"link,omitempty"`
	Image         *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
