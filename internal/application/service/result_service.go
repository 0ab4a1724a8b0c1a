package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/application/workflow"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
)

// ResultService attaches the final assessment result to an approved
// application and keeps completion status consistent with result
// presence.
type ResultService interface {
	// AttachResult stores the result and completes the application in
	// one atomic unit, then dispatches a result-ready notification.
	AttachResult(ctx context.Context, applicationID int64, actor entity.Actor, description, link, image string) (*AttachOutcome, error)

	GetByApplication(ctx context.Context, applicationID int64, actor entity.Actor) (*entity.Result, error)
	UpdateResult(ctx context.Context, id int64, actor entity.Actor, description, link, image string) (*entity.Result, error)

	// DeleteResult removes the result row only. Completion is sticky:
	// the application stays completed even without a result.
	DeleteResult(ctx context.Context, id int64, actor entity.Actor) error
}

// AttachOutcome is the result of a successful attachment
type AttachOutcome struct {
	Result *entity.Result

	// DispatchWarning is set when the result-ready notification failed
	// after the commit
	DispatchWarning error
}

type resultServiceImpl struct {
	resultRepo port.ResultRepository
	appRepo    port.ApplicationRepository
	engine     workflow.Engine
	notifier   workflow.Notifier
	txManager  port.TransactionManager
	logger     Logger
}

// NewResultService creates a new ResultService
func NewResultService(
	resultRepo port.ResultRepository,
	appRepo port.ApplicationRepository,
	engine workflow.Engine,
	notifier workflow.Notifier,
	txManager port.TransactionManager,
	logger Logger,
) ResultService {
	return &resultServiceImpl{
		resultRepo: resultRepo,
		appRepo:    appRepo,
		engine:     engine,
		notifier:   notifier,
		txManager:  txManager,
		logger:     logger,
	}
}

// AttachResult stores the result and completes the application atomically
func (s *resultServiceImpl) AttachResult(ctx context.Context, applicationID int64, actor entity.Actor, description, link, image string) (*AttachOutcome, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: attaching results requires admin role", entity.ErrForbidden)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: result description is required", entity.ErrValidation)
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", entity.ErrNotFound, applicationID)
	}
	// The existing-result check comes first: a repeat attach against a
	// completed application reports the duplicate, not the status.
	existing, err := s.resultRepo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("check existing result: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: application %d already has a result", entity.ErrConflict, applicationID)
	}

	if app.Status != entity.StatusApproved {
		return nil, fmt.Errorf("%w: application %d is %s, results attach to approved applications only", entity.ErrInvalidState, applicationID, app.Status)
	}

	result := &entity.Result{
		ApplicationID: applicationID,
		Description:   description,
	}
	if link != "" {
		result.Link = &link
	}
	if image != "" {
		result.Image = &image
	}

	// Result creation and completion are one atomic unit: a result must
	// never exist against a non-approved application.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.resultRepo.Create(txCtx, result); err != nil {
			return fmt.Errorf("create result: %w", err)
		}
		if err := s.engine.Complete(txCtx, applicationID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Result attached, application completed",
		"result_id", result.ID,
		"application_id", applicationID,
	)

	outcome := &AttachOutcome{Result: result}

	message := fmt.Sprintf("The assessment result for your ITSA application %q is ready: %s", app.AppName, description)
	_, warn := s.notifier.Dispatch(ctx, app.OwnerID, "Assessment Result Ready", message,
		entity.NotificationTypeResultReady, entity.ApplicationRef(applicationID))
	if warn != nil {
		s.logger.Warn("Result notification dispatch failed",
			"application_id", applicationID,
			"error", warn,
		)
		outcome.DispatchWarning = warn
	}

	return outcome, nil
}

// GetByApplication loads the result for an application, restricted to
// the owner and administrators
func (s *resultServiceImpl) GetByApplication(ctx context.Context, applicationID int64, actor entity.Actor) (*entity.Result, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", entity.ErrNotFound, applicationID)
	}
	if !actor.IsAdmin() && actor.ID != app.OwnerID {
		return nil, fmt.Errorf("%w: application %d belongs to another user", entity.ErrForbidden, applicationID)
	}

	result, err := s.resultRepo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: application %d has no result", entity.ErrNotFound, applicationID)
	}
	return result, nil
}

// UpdateResult edits the result row. Admin only.
func (s *resultServiceImpl) UpdateResult(ctx context.Context, id int64, actor entity.Actor, description, link, image string) (*entity.Result, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: editing results requires admin role", entity.ErrForbidden)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: result description is required", entity.ErrValidation)
	}

	result, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: result %d", entity.ErrNotFound, id)
	}

	result.Description = description
	result.Link = nil
	if link != "" {
		result.Link = &link
	}
	result.Image = nil
	if image != "" {
		result.Image = &image
	}

	if err := s.resultRepo.Update(ctx, result); err != nil {
		s.logger.Error("Failed to update result", "error", err, "result_id", id)
		return nil, fmt.Errorf("update result: %w", err)
	}
	return result, nil
}

// DeleteResult removes the result row without reverting completion
func (s *resultServiceImpl) DeleteResult(ctx context.Context, id int64, actor entity.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: deleting results requires admin role", entity.ErrForbidden)
	}

	result, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get result: %w", err)
	}
	if result == nil {
		return fmt.Errorf("%w: result %d", entity.ErrNotFound, id)
	}

	if err := s.resultRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete result", "error", err, "result_id", id)
		return fmt.Errorf("delete result: %w", err)
	}

	s.logger.Info("Result deleted, application completion unchanged",
		"result_id", id,
		"application_id", result.ApplicationID,
	)
	return nil
}
