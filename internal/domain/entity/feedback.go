package entity

import "time"

// Feedback is a user-submitted message with a lightweight two-state
// review lifecycle. An admin reply sets the reply text and completes
// the feedback in a single step.
type Feedback struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	AdminReply *string   `json:"admin_reply,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
