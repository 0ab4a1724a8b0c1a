package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	"github.com/dinkominfo-bms/itsa-review/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, application_id, feedback_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		nullInt64(notification.ApplicationID),
		nullInt64(notification.FeedbackID),
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	notification.ID = id
	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, application_id, feedback_id,
			is_read, read_at, created_at
		FROM notifications
		WHERE id = ?
	`

	row := r.getExecutor(ctx).QueryRowContext(ctx, query, id)
	notification, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get notification by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return notification, nil
}

// ListByUser retrieves one user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, application_id, feedback_id,
			is_read, read_at, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}

// CountUnread returns the number of unread notifications for a user
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`

	var count int64
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count unread notifications", zap.Int64("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead sets the read flag if the notification is still unread.
// The is_read guard keeps read_at stable across repeat calls.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, readAt time.Time) (bool, error) {
	query := `
		UPDATE notifications
		SET is_read = 1, read_at = ?
		WHERE id = ? AND is_read = 0
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, readAt, id)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// MarkAllRead marks every unread notification of one user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64, readAt time.Time) error {
	query := `
		UPDATE notifications
		SET is_read = 1, read_at = ?
		WHERE user_id = ? AND is_read = 0
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, readAt, userID)
	if err != nil {
		r.logger.Error("Failed to mark all notifications read", zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return nil
}

// Delete removes a notification
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM notifications WHERE id = ?`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete notification", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	return nil
}

func scanNotification(row rowScanner) (*entity.Notification, error) {
	var notification entity.Notification
	var applicationID, feedbackID sql.NullInt64
	var readAt sql.NullTime

	err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&applicationID,
		&feedbackID,
		&notification.IsRead,
		&readAt,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if applicationID.Valid {
		notification.ApplicationID = &applicationID.Int64
	}
	if feedbackID.Valid {
		notification.FeedbackID = &feedbackID.Int64
	}
	if readAt.Valid {
		notification.ReadAt = &readAt.Time
	}

	return &notification, nil
}

// getExecutor returns appropriate executor based on context
func (r *NotificationRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
