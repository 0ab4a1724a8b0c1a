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

const applicationColumns = `
	id, owner_id, app_name, domain, network_classification, address,
	official_name, official_employee_no, official_rank, official_position,
	purpose, audience, hosting, framework, operator,
	role_count, role_names, account_mechanism, credential_mechanism,
	has_password_reset, contact_pic, extra_notes,
	admin_reply, status, created_at, updated_at`

// ApplicationRepository implements port.ApplicationRepository
type ApplicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) port.ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	query := `
		INSERT INTO applications (
			owner_id, app_name, domain, network_classification, address,
			official_name, official_employee_no, official_rank, official_position,
			purpose, audience, hosting, framework, operator,
			role_count, role_names, account_mechanism, credential_mechanism,
			has_password_reset, contact_pic, extra_notes, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		app.OwnerID, app.AppName, app.Domain, app.NetworkClassification, app.Address,
		app.OfficialName, app.OfficialEmployeeNo, app.OfficialRank, app.OfficialPosition,
		app.Purpose, app.Audience, app.Hosting, app.Framework, app.Operator,
		app.RoleCount, app.RoleNames, app.AccountMechanism, app.CredentialMechanism,
		app.HasPasswordReset, app.ContactPIC, app.ExtraNotes, app.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create application", zap.Error(err))
		return fmt.Errorf("failed to create application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	app.ID = id
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = ?`

	row := r.getExecutor(ctx).QueryRowContext(ctx, query, id)
	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get application by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return app, nil
}

// UpdateFields rewrites the owner-editable fields of an application
func (r *ApplicationRepository) UpdateFields(ctx context.Context, id int64, fields entity.ApplicationFields) error {
	query := `
		UPDATE applications SET
			app_name = ?, domain = ?, network_classification = ?, address = ?,
			official_name = ?, official_employee_no = ?, official_rank = ?, official_position = ?,
			purpose = ?, audience = ?, hosting = ?, framework = ?, operator = ?,
			role_count = ?, role_names = ?, account_mechanism = ?, credential_mechanism = ?,
			has_password_reset = ?, contact_pic = ?, extra_notes = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		fields.AppName, fields.Domain, fields.NetworkClassification, fields.Address,
		fields.OfficialName, fields.OfficialEmployeeNo, fields.OfficialRank, fields.OfficialPosition,
		fields.Purpose, fields.Audience, fields.Hosting, fields.Framework, fields.Operator,
		fields.RoleCount, fields.RoleNames, fields.AccountMechanism, fields.CredentialMechanism,
		fields.HasPasswordReset, fields.ContactPIC, fields.ExtraNotes,
		id,
	)
	if err != nil {
		r.logger.Error("Failed to update application fields", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update application fields: %w", err)
	}

	return nil
}

// UpdateStatusFrom atomically moves the status using a compare-and-swap
// on the current status column. Racing writers lose when zero rows match.
func (r *ApplicationRepository) UpdateStatusFrom(ctx context.Context, id int64, fromStatus, toStatus string, reply *string) (bool, error) {
	var (
		result sql.Result
		err    error
	)

	if reply != nil {
		query := `
			UPDATE applications
			SET status = ?, admin_reply = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND status = ?
		`
		result, err = r.getExecutor(ctx).ExecContext(ctx, query, toStatus, *reply, id, fromStatus)
	} else {
		query := `
			UPDATE applications
			SET status = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND status = ?
		`
		result, err = r.getExecutor(ctx).ExecContext(ctx, query, toStatus, id, fromStatus)
	}

	if err != nil {
		r.logger.Error("Failed to update status",
			zap.Int64("id", id),
			zap.String("from", fromStatus),
			zap.String("to", toStatus),
			zap.Error(err),
		)
		return false, fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// Delete removes an application
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM applications WHERE id = ?`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete application", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete application: %w", err)
	}

	return nil
}

// List retrieves applications with pagination, newest first
func (r *ApplicationRepository) List(ctx context.Context, limit, offset int) ([]*entity.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	return r.queryApplications(ctx, query, limit, offset)
}

// ListByOwner retrieves one user's applications with pagination
func (r *ApplicationRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entity.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE owner_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	return r.queryApplications(ctx, query, ownerID, limit, offset)
}

func (r *ApplicationRepository) queryApplications(ctx context.Context, query string, args ...interface{}) ([]*entity.Application, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*entity.Application, error) {
	var app entity.Application
	var adminReply sql.NullString

	err := row.Scan(
		&app.ID, &app.OwnerID, &app.AppName, &app.Domain, &app.NetworkClassification, &app.Address,
		&app.OfficialName, &app.OfficialEmployeeNo, &app.OfficialRank, &app.OfficialPosition,
		&app.Purpose, &app.Audience, &app.Hosting, &app.Framework, &app.Operator,
		&app.RoleCount, &app.RoleNames, &app.AccountMechanism, &app.CredentialMechanism,
		&app.HasPasswordReset, &app.ContactPIC, &app.ExtraNotes,
		&adminReply, &app.Status, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if adminReply.Valid {
		app.AdminReply = &adminReply.String
	}

	return &app, nil
}

// getExecutor returns appropriate executor based on context
func (r *ApplicationRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}


// Verify interface compliance
var _ port.ApplicationRepository = (*ApplicationRepository)(nil)
