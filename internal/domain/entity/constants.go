package entity

// Status constants for Application
const (
	StatusSubmitted = "submitted"
	StatusRevision  = "revision"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Status constants for Feedback
const (
	FeedbackStatusSubmitted = "submitted"
	FeedbackStatusCompleted = "completed"
)

// Notification type constants
const (
	NotificationTypeStatusChanged = "status-changed"
	NotificationTypeReplyReceived = "reply-received"
	NotificationTypeResultReady   = "result-ready"
	NotificationTypeGeneric       = "generic"
)

// Network classification constants for Application
const (
	NetworkPublic = "public"
	NetworkLocal  = "local"
)
