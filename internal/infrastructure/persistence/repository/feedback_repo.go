package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	"github.com/dinkominfo-bms/itsa-review/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// FeedbackRepository implements port.FeedbackRepository
type FeedbackRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *sql.DB, logger *zap.Logger) port.FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new feedback entry
func (r *FeedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	query := `
		INSERT INTO feedback (owner_id, subject, message, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		feedback.OwnerID,
		feedback.Subject,
		feedback.Message,
		feedback.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create feedback", zap.Error(err))
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	feedback.ID = id
	return nil
}

// GetByID retrieves a feedback entry by ID
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*entity.Feedback, error) {
	query := `
		SELECT id, owner_id, subject, message, admin_reply, status, created_at, updated_at
		FROM feedback
		WHERE id = ?
	`

	row := r.getExecutor(ctx).QueryRowContext(ctx, query, id)
	feedback, err := scanFeedback(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get feedback by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return feedback, nil
}

// ListByOwner retrieves one user's feedback entries, newest first
func (r *FeedbackRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entity.Feedback, error) {
	query := `
		SELECT id, owner_id, subject, message, admin_reply, status, created_at, updated_at
		FROM feedback
		WHERE owner_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	return r.queryFeedback(ctx, query, ownerID, limit, offset)
}

// List retrieves feedback entries with pagination, newest first
func (r *FeedbackRepository) List(ctx context.Context, limit, offset int) ([]*entity.Feedback, error) {
	query := `
		SELECT id, owner_id, subject, message, admin_reply, status, created_at, updated_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	return r.queryFeedback(ctx, query, limit, offset)
}

// Reply sets the admin reply and completes the feedback in one
// statement. The status guard keeps a second reply from overwriting
// the first.
func (r *FeedbackRepository) Reply(ctx context.Context, id int64, reply string) (bool, error) {
	query := `
		UPDATE feedback
		SET admin_reply = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		reply, entity.FeedbackStatusCompleted, id, entity.FeedbackStatusSubmitted)
	if err != nil {
		r.logger.Error("Failed to reply to feedback", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to reply to feedback: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *FeedbackRepository) queryFeedback(ctx context.Context, query string, args ...interface{}) ([]*entity.Feedback, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list feedback", zap.Error(err))
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var feedbacks []*entity.Feedback
	for rows.Next() {
		feedback, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, feedback)
	}

	return feedbacks, rows.Err()
}

func scanFeedback(row rowScanner) (*entity.Feedback, error) {
	var feedback entity.Feedback
	var adminReply sql.NullString

	err := row.Scan(
		&feedback.ID,
		&feedback.OwnerID,
		&feedback.Subject,
		&feedback.Message,
		&adminReply,
		&feedback.Status,
		&feedback.CreatedAt,
		&feedback.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if adminReply.Valid {
		feedback.AdminReply = &adminReply.String
	}

	return &feedback, nil
}

// getExecutor returns appropriate executor based on context
func (r *FeedbackRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.FeedbackRepository = (*FeedbackRepository)(nil)
