package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
)

// NotificationService creates notification records and lets their
// owners consume them. The creating side never mutates a notification
// after dispatch.
type NotificationService interface {
	Dispatch(ctx context.Context, userID int64, title, message, notifType string, ref entity.NotificationRef) (*entity.Notification, error)
	MarkRead(ctx context.Context, id int64, actor entity.Actor) (*entity.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id int64, actor entity.Actor) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type notificationServiceImpl struct {
	notificationRepo port.NotificationRepository
	userRepo         port.UserRepository
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo port.NotificationRepository,
	userRepo port.UserRepository,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// Dispatch creates a notification record addressed to a user
func (s *notificationServiceImpl) Dispatch(ctx context.Context, userID int64, title, message, notifType string, ref entity.NotificationRef) (*entity.Notification, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check recipient: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", entity.ErrNotFound, userID)
	}

	notification := &entity.Notification{
		UserID:        userID,
		Title:         title,
		Message:       message,
		Type:          notifType,
		ApplicationID: ref.ApplicationID,
		FeedbackID:    ref.FeedbackID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error("Failed to create notification", "error", err, "user_id", userID, "type", notifType)
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.logger.Info("Notification dispatched",
		"notification_id", notification.ID,
		"user_id", userID,
		"type", notifType,
	)
	return notification, nil
}

// MarkRead sets the read flag for the owning user. Marking an
// already-read notification is a no-op, not an error.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id int64, actor entity.Actor) (*entity.Notification, error) {
	notification, err := s.getOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if _, err := s.notificationRepo.MarkRead(ctx, id, time.Now()); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}

	return s.notificationRepo.GetByID(ctx, notification.ID)
}

// MarkAllRead marks every unread notification of one user as read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

// Delete removes a notification. Owner only.
func (s *notificationServiceImpl) Delete(ctx context.Context, id int64, actor entity.Actor) error {
	if _, err := s.getOwned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first
func (s *notificationServiceImpl) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

// CountUnread returns the number of unread notifications for a user
func (s *notificationServiceImpl) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *notificationServiceImpl) getOwned(ctx context.Context, id int64, actor entity.Actor) (*entity.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	if notification == nil {
		return nil, fmt.Errorf("%w: notification %d", entity.ErrNotFound, id)
	}
	if notification.UserID != actor.ID {
		return nil, fmt.Errorf("%w: notification %d belongs to another user", entity.ErrForbidden, id)
	}
	return notification, nil
}
