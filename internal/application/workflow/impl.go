package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	domainwf "github.com/dinkominfo-bms/itsa-review/internal/domain/workflow"
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	table     domainwf.Table
	appRepo   port.ApplicationRepository
	txManager port.TransactionManager
	notifier  Notifier
	logger    Logger
}

// NewEngine creates a new review workflow engine
func NewEngine(
	appRepo port.ApplicationRepository,
	txManager port.TransactionManager,
	notifier Notifier,
	logger Logger,
) Engine {
	return &engineImpl{
		table:     BuildReviewTable(),
		appRepo:   appRepo,
		txManager: txManager,
		notifier:  notifier,
		logger:    logger,
	}
}

// RequestTransition validates and applies a transition requested by an actor
func (e *engineImpl) RequestTransition(ctx context.Context, applicationID int64, actor entity.Actor, target domainwf.State, reply string) (*TransitionResult, error) {
	app, err := e.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", entity.ErrNotFound, applicationID)
	}

	current := domainwf.State(app.Status)
	if !current.IsValid() {
		return nil, fmt.Errorf("%w: application %d has status %q", domainwf.ErrInvalidState, applicationID, app.Status)
	}

	rule, ok := e.table.Rule(current, target)
	if !ok {
		return nil, fmt.Errorf("%w: from %s to %s", domainwf.ErrInvalidTransition, current, target)
	}

	if err := e.authorize(rule, actor, app); err != nil {
		return nil, err
	}

	reply = strings.TrimSpace(reply)
	if rule.RequiresReply && reply == "" {
		return nil, fmt.Errorf("%w: transition from %s to %s requires a reply", entity.ErrValidation, current, target)
	}

	// The resubmission edge preserves the prior admin reply as history;
	// admin edges store the reply when one was given.
	var replyPtr *string
	if rule.Actor == domainwf.ByAdmin && reply != "" {
		replyPtr = &reply
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		moved, err := e.appRepo.UpdateStatusFrom(txCtx, applicationID, current.String(), target.String(), replyPtr)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !moved {
			return e.staleStateError(txCtx, applicationID, current, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := e.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("reload application: %w", err)
	}

	e.logger.Info("Application transitioned",
		"application_id", applicationID,
		"from", current.String(),
		"to", target.String(),
		"actor_id", actor.ID,
		"actor_role", actor.Role.String(),
	)

	result := &TransitionResult{Application: updated}

	// Dispatch is best-effort relative to the committed state change
	if warn := e.notifyOwner(ctx, updated, target, reply); warn != nil {
		e.logger.Warn("Notification dispatch failed after transition",
			"application_id", applicationID,
			"to", target.String(),
			"error", warn,
		)
		result.DispatchWarning = warn
	}

	return result, nil
}

// Complete fires the internal approved-to-completed edge
func (e *engineImpl) Complete(ctx context.Context, applicationID int64) error {
	moved, err := e.appRepo.UpdateStatusFrom(ctx, applicationID,
		domainwf.StateApproved.String(), domainwf.StateCompleted.String(), nil)
	if err != nil {
		return fmt.Errorf("complete application: %w", err)
	}
	if !moved {
		return fmt.Errorf("%w: application %d is not approved", entity.ErrInvalidState, applicationID)
	}
	return nil
}

// CurrentState returns the current review state of an application
func (e *engineImpl) CurrentState(ctx context.Context, applicationID int64) (domainwf.State, error) {
	app, err := e.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return "", fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return "", fmt.Errorf("%w: application %d", entity.ErrNotFound, applicationID)
	}

	state := domainwf.State(app.Status)
	if !state.IsValid() {
		return "", fmt.Errorf("%w: application %d has status %q", domainwf.ErrInvalidState, applicationID, app.Status)
	}
	return state, nil
}

// authorize checks the actor against the edge's constraint
func (e *engineImpl) authorize(rule domainwf.Rule, actor entity.Actor, app *entity.Application) error {
	switch rule.Actor {
	case domainwf.ByAdmin:
		if !actor.IsAdmin() {
			return fmt.Errorf("%w: transition to %s requires admin role", entity.ErrForbidden, rule.To)
		}
	case domainwf.ByOwner:
		if actor.IsAdmin() || actor.ID != app.OwnerID {
			return fmt.Errorf("%w: transition to %s is reserved for the owner", entity.ErrForbidden, rule.To)
		}
	case domainwf.Internal:
		return fmt.Errorf("%w: transition to %s cannot be requested directly", entity.ErrForbidden, rule.To)
	}
	return nil
}

// staleStateError builds the failure for a lost compare-and-swap race
func (e *engineImpl) staleStateError(ctx context.Context, applicationID int64, seen, target domainwf.State) error {
	app, err := e.appRepo.GetByID(ctx, applicationID)
	if err != nil || app == nil {
		return fmt.Errorf("%w: from %s to %s (stale state)", domainwf.ErrInvalidTransition, seen, target)
	}
	return fmt.Errorf("%w: from %s to %s (state is now %s)", domainwf.ErrInvalidTransition, seen, target, app.Status)
}

// notifyOwner dispatches the notification matching a completed transition.
// Resubmission does not notify anyone; admins pick it up from their queue.
func (e *engineImpl) notifyOwner(ctx context.Context, app *entity.Application, target domainwf.State, reply string) error {
	var title, message string

	switch target {
	case domainwf.StateRevision:
		title = "Application Needs Revision"
		message = fmt.Sprintf("Your ITSA application %q needs revision: %s", app.AppName, reply)
	case domainwf.StateApproved:
		title = "Application Approved"
		message = fmt.Sprintf("Your ITSA application %q has been approved. The assessment result will appear in your history once published.", app.AppName)
		if reply != "" {
			message = fmt.Sprintf("%s Note from the reviewer: %s", message, reply)
		}
	case domainwf.StateRejected:
		title = "Application Rejected"
		message = fmt.Sprintf("Your ITSA application %q has been rejected: %s", app.AppName, reply)
	default:
		return nil
	}

	_, err := e.notifier.Dispatch(ctx, app.OwnerID, title, message,
		entity.NotificationTypeStatusChanged, entity.ApplicationRef(app.ID))
	return err
}
