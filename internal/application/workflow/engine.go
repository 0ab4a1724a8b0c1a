package workflow

import (
	"context"

	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	domainwf "github.com/dinkominfo-bms/itsa-review/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Notifier enqueues a notification record for a user. Dispatch happens
// strictly after the state commit and is best-effort relative to it.
type Notifier interface {
	Dispatch(ctx context.Context, userID int64, title, message, notifType string, ref entity.NotificationRef) (*entity.Notification, error)
}

// TransitionResult is the outcome of a successful transition request
type TransitionResult struct {
	Application *entity.Application

	// DispatchWarning is set when the post-commit notification failed.
	// The state change itself stands; callers surface this as a warning.
	DispatchWarning error
}

// Engine governs how an application moves through review statuses
type Engine interface {
	// RequestTransition validates and applies a transition requested by
	// an actor, then dispatches the matching notification to the owner
	RequestTransition(ctx context.Context, applicationID int64, actor entity.Actor, target domainwf.State, reply string) (*TransitionResult, error)

	// Complete fires the internal approved-to-completed edge. It is only
	// called from result attachment, inside the caller's transaction,
	// and is not reachable through RequestTransition.
	Complete(ctx context.Context, applicationID int64) error

	// CurrentState returns the current review state of an application
	CurrentState(ctx context.Context, applicationID int64) (domainwf.State, error)
}
