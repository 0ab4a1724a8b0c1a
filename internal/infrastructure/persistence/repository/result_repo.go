package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	"github.com/dinkominfo-bms/itsa-review/internal/infrastructure/persistence/sqlite"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ResultRepository implements port.ResultRepository
type ResultRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sql.DB, logger *zap.Logger) port.ResultRepository {
	return &ResultRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new result. The unique index on application_id
// makes a duplicate attach surface as ErrConflict.
func (r *ResultRepository) Create(ctx context.Context, result *entity.Result) error {
	query := `
		INSERT INTO results (application_id, description, link, image)
		VALUES (?, ?, ?, ?)
	`

	res, err := r.getExecutor(ctx).ExecContext(ctx, query,
		result.ApplicationID,
		result.Description,
		nullString(result.Link),
		nullString(result.Image),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: result already exists for application %d", entity.ErrConflict, result.ApplicationID)
		}
		r.logger.Error("Failed to create result", zap.Error(err))
		return fmt.Errorf("failed to create result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	result.ID = id
	return nil
}

// GetByID retrieves a result by ID
func (r *ResultRepository) GetByID(ctx context.Context, id int64) (*entity.Result, error) {
	query := `
		SELECT id, application_id, description, link, image, created_at
		FROM results
		WHERE id = ?
	`
	return r.scanOne(ctx, query, id)
}

// GetByApplicationID retrieves the result for an application
func (r *ResultRepository) GetByApplicationID(ctx context.Context, applicationID int64) (*entity.Result, error) {
	query := `
		SELECT id, application_id, description, link, image, created_at
		FROM results
		WHERE application_id = ?
	`
	return r.scanOne(ctx, query, applicationID)
}

// Update updates an existing result
func (r *ResultRepository) Update(ctx context.Context, result *entity.Result) error {
	query := `UPDATE results SET description = ?, link = ?, image = ? WHERE id = ?`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		result.Description,
		nullString(result.Link),
		nullString(result.Image),
		result.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update result", zap.Int64("id", result.ID), zap.Error(err))
		return fmt.Errorf("failed to update result: %w", err)
	}

	return nil
}

// Delete removes a result
func (r *ResultRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM results WHERE id = ?`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete result", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete result: %w", err)
	}

	return nil
}

// DeleteByApplicationID removes the result owned by an application
func (r *ResultRepository) DeleteByApplicationID(ctx context.Context, applicationID int64) error {
	query := `DELETE FROM results WHERE application_id = ?`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, applicationID)
	if err != nil {
		r.logger.Error("Failed to delete result by application", zap.Int64("application_id", applicationID), zap.Error(err))
		return fmt.Errorf("failed to delete result: %w", err)
	}

	return nil
}

func (r *ResultRepository) scanOne(ctx context.Context, query string, arg interface{}) (*entity.Result, error) {
	var result entity.Result
	var link, image sql.NullString

	err := r.getExecutor(ctx).QueryRowContext(ctx, query, arg).Scan(
		&result.ID,
		&result.ApplicationID,
		&result.Description,
		&link,
		&image,
		&result.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get result", zap.Error(err))
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if link.Valid {
		result.Link = &link.String
	}
	if image.Valid {
		result.Image = &image.String
	}

	return &result, nil
}

// getExecutor returns appropriate executor based on context
func (r *ResultRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// Verify interface compliance
var _ port.ResultRepository = (*ResultRepository)(nil)
