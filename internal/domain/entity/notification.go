package entity

import "time"

// Notification is an in-app message addressed to a single user.
// Created by the workflow engine or the feedback flow; after creation
// it is mutated only by its owner (mark read / delete).
type Notification struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          string     `json:"type"`
	ApplicationID *int64     `json:"application_id,omitempty"`
	FeedbackID    *int64     `json:"feedback_id,omitempty"`
	IsRead        bool       `json:"is_read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NotificationRef points a notification at the entity that caused it.
// At most one of the fields is set.
type NotificationRef struct {
	ApplicationID *int64
	FeedbackID    *int64
}

// ApplicationRef builds a reference to an application
func ApplicationRef(id int64) NotificationRef {
	return NotificationRef{ApplicationID: &id}
}

// FeedbackRef builds a reference to a feedback entry
func FeedbackRef(id int64) NotificationRef {
	return NotificationRef{FeedbackID: &id}
}
