package port

import (
	"context"
	"time"

	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
)

// ApplicationRepository defines persistence operations for Application
type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	GetByID(ctx context.Context, id int64) (*entity.Application, error)
	UpdateFields(ctx context.Context, id int64, fields entity.ApplicationFields) error

	// UpdateStatusFrom atomically moves the status from fromStatus to
	// toStatus. A non-nil reply also sets the admin reply column; nil
	// leaves it untouched. Returns false when the row was not in
	// fromStatus anymore, so racing writers can detect stale state.
	UpdateStatusFrom(ctx context.Context, id int64, fromStatus, toStatus string, reply *string) (bool, error)

	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.Application, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entity.Application, error)
}

// ResultRepository defines persistence operations for Result
type ResultRepository interface {
	Create(ctx context.Context, result *entity.Result) error
	GetByID(ctx context.Context, id int64) (*entity.Result, error)
	GetByApplicationID(ctx context.Context, applicationID int64) (*entity.Result, error)
	Update(ctx context.Context, result *entity.Result) error
	Delete(ctx context.Context, id int64) error
	DeleteByApplicationID(ctx context.Context, applicationID int64) error
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)

	// MarkRead sets the read flag and timestamp if the notification is
	// still unread. Returns false when it was already read, so callers
	// can treat repeat calls as no-ops without clobbering read_at.
	MarkRead(ctx context.Context, id int64, readAt time.Time) (bool, error)

	MarkAllRead(ctx context.Context, userID int64, readAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// FeedbackRepository defines persistence operations for Feedback
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	GetByID(ctx context.Context, id int64) (*entity.Feedback, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entity.Feedback, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Feedback, error)

	// Reply atomically sets the admin reply and completes the feedback.
	// Returns false when the feedback was already completed.
	Reply(ctx context.Context, id int64, reply string) (bool, error)
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
