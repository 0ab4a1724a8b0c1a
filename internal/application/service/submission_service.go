package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	"github.com/dinkominfo-bms/itsa-review/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SubmissionService owns the Application entity and its field-level rules
type SubmissionService interface {
	Create(ctx context.Context, ownerID int64, fields entity.ApplicationFields) (*entity.Application, error)
	Get(ctx context.Context, id int64, actor entity.Actor) (*entity.Application, error)
	Update(ctx context.Context, id int64, actor entity.Actor, fields entity.ApplicationFields) (*entity.Application, error)
	Delete(ctx context.Context, id int64, actor entity.Actor) error
	List(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.Application, error)
}

type submissionServiceImpl struct {
	appRepo    port.ApplicationRepository
	resultRepo port.ResultRepository
	txManager  port.TransactionManager
	logger     Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	appRepo port.ApplicationRepository,
	resultRepo port.ResultRepository,
	txManager port.TransactionManager,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		appRepo:    appRepo,
		resultRepo: resultRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// Create validates the fields and stores a new application in submitted state
func (s *submissionServiceImpl) Create(ctx context.Context, ownerID int64, fields entity.ApplicationFields) (*entity.Application, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	app := &entity.Application{
		OwnerID:               ownerID,
		AppName:               fields.AppName,
		Domain:                fields.Domain,
		NetworkClassification: fields.NetworkClassification,
		Address:               fields.Address,
		OfficialName:          fields.OfficialName,
		OfficialEmployeeNo:    fields.OfficialEmployeeNo,
		OfficialRank:          fields.OfficialRank,
		OfficialPosition:      fields.OfficialPosition,
		Purpose:               fields.Purpose,
		Audience:              fields.Audience,
		Hosting:               fields.Hosting,
		Framework:             fields.Framework,
		Operator:              fields.Operator,
		RoleCount:             fields.RoleCount,
		RoleNames:             fields.RoleNames,
		AccountMechanism:      fields.AccountMechanism,
		CredentialMechanism:   fields.CredentialMechanism,
		HasPasswordReset:      fields.HasPasswordReset,
		ContactPIC:            fields.ContactPIC,
		ExtraNotes:            fields.ExtraNotes,
		Status:                entity.StatusSubmitted,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		s.logger.Error("Failed to create application", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.logger.Info("Application created", "application_id", app.ID, "owner_id", ownerID)
	return app, nil
}

// Get loads an application, restricted to its owner and administrators
func (s *submissionServiceImpl) Get(ctx context.Context, id int64, actor entity.Actor) (*entity.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", entity.ErrNotFound, id)
	}
	if !actor.IsAdmin() && actor.ID != app.OwnerID {
		return nil, fmt.Errorf("%w: application %d belongs to another user", entity.ErrForbidden, id)
	}
	return app, nil
}

// Update rewrites the owner-editable fields. Only the owner may edit,
// and only while the application is submitted or under revision.
func (s *submissionServiceImpl) Update(ctx context.Context, id int64, actor entity.Actor, fields entity.ApplicationFields) (*entity.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", entity.ErrNotFound, id)
	}

	if actor.IsAdmin() || actor.ID != app.OwnerID {
		return nil, fmt.Errorf("%w: only the owner may edit application %d", entity.ErrForbidden, id)
	}
	if app.Status != entity.StatusSubmitted && app.Status != entity.StatusRevision {
		return nil, fmt.Errorf("%w: application %d is %s and no longer editable", entity.ErrForbidden, id, app.Status)
	}

	if err := validateFields(fields); err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateFields(ctx, id, fields); err != nil {
		s.logger.Error("Failed to update application", "error", err, "application_id", id)
		return nil, fmt.Errorf("update application: %w", err)
	}

	updated, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload application: %w", err)
	}
	return updated, nil
}

// Delete removes an application and its result. Admin only.
func (s *submissionServiceImpl) Delete(ctx context.Context, id int64, actor entity.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: deleting applications requires admin role", entity.ErrForbidden)
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return fmt.Errorf("%w: application %d", entity.ErrNotFound, id)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.resultRepo.DeleteByApplicationID(txCtx, id); err != nil {
			return fmt.Errorf("delete result: %w", err)
		}
		if err := s.appRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete application: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete application", "error", err, "application_id", id)
		return err
	}

	s.logger.Info("Application deleted", "application_id", id, "actor_id", actor.ID)
	return nil
}

// List returns applications visible to the actor: admins see all,
// users see their own.
func (s *submissionServiceImpl) List(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.Application, error) {
	if actor.IsAdmin() {
		return s.appRepo.List(ctx, limit, offset)
	}
	return s.appRepo.ListByOwner(ctx, actor.ID, limit, offset)
}

// validateFields enforces the required-field and address-format rules
func validateFields(fields entity.ApplicationFields) error {
	if strings.TrimSpace(fields.AppName) == "" {
		return fmt.Errorf("%w: application name is required", entity.ErrValidation)
	}
	if strings.TrimSpace(fields.Domain) == "" {
		return fmt.Errorf("%w: domain is required", entity.ErrValidation)
	}

	switch fields.NetworkClassification {
	case entity.NetworkPublic, entity.NetworkLocal:
	case "":
		return fmt.Errorf("%w: network classification is required", entity.ErrValidation)
	default:
		return fmt.Errorf("%w: network classification must be %q or %q", entity.ErrValidation, entity.NetworkPublic, entity.NetworkLocal)
	}

	return utils.ValidateAddressClassification(fields.Address, fields.NetworkClassification)
}
