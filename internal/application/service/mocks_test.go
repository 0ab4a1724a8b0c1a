package service

import (
	"context"
	"sync"
	"time"

	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
)

// Shared in-memory fakes for the service tests.

type fakeAppRepo struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]*entity.Application
}

func newFakeAppRepo(apps ...*entity.Application) *fakeAppRepo {
	m := &fakeAppRepo{apps: make(map[int64]*entity.Application), nextID: 100}
	for _, app := range apps {
		m.apps[app.ID] = app
	}
	return m
}

func (m *fakeAppRepo) Create(ctx context.Context, app *entity.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	app.ID = m.nextID
	copied := *app
	m.apps[app.ID] = &copied
	return nil
}

func (m *fakeAppRepo) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	copied := *app
	return &copied, nil
}

func (m *fakeAppRepo) UpdateFields(ctx context.Context, id int64, fields entity.ApplicationFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil
	}
	app.AppName = fields.AppName
	app.Domain = fields.Domain
	app.NetworkClassification = fields.NetworkClassification
	app.Address = fields.Address
	app.Purpose = fields.Purpose
	return nil
}

func (m *fakeAppRepo) UpdateStatusFrom(ctx context.Context, id int64, fromStatus, toStatus string, reply *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok || app.Status != fromStatus {
		return false, nil
	}
	app.Status = toStatus
	if reply != nil {
		r := *reply
		app.AdminReply = &r
	}
	return true, nil
}

func (m *fakeAppRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.apps, id)
	return nil
}

func (m *fakeAppRepo) List(ctx context.Context, limit, offset int) ([]*entity.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Application
	for _, app := range m.apps {
		copied := *app
		out = append(out, &copied)
	}
	return out, nil
}

func (m *fakeAppRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entity.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Application
	for _, app := range m.apps {
		if app.OwnerID == ownerID {
			copied := *app
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeResultRepo struct {
	mu        sync.Mutex
	nextID    int64
	results   map[int64]*entity.Result
	createErr error
}

func newFakeResultRepo(results ...*entity.Result) *fakeResultRepo {
	m := &fakeResultRepo{results: make(map[int64]*entity.Result), nextID: 500}
	for _, r := range results {
		m.results[r.ID] = r
	}
	return m
}

func (m *fakeResultRepo) Create(ctx context.Context, result *entity.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, r := range m.results {
		if r.ApplicationID == result.ApplicationID {
			return entity.ErrConflict
		}
	}
	m.nextID++
	result.ID = m.nextID
	copied := *result
	m.results[result.ID] = &copied
	return nil
}

func (m *fakeResultRepo) GetByID(ctx context.Context, id int64) (*entity.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *fakeResultRepo) GetByApplicationID(ctx context.Context, applicationID int64) (*entity.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.ApplicationID == applicationID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *fakeResultRepo) Update(ctx context.Context, result *entity.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *result
	m.results[result.ID] = &copied
	return nil
}

func (m *fakeResultRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.results, id)
	return nil
}

func (m *fakeResultRepo) DeleteByApplicationID(ctx context.Context, applicationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.results {
		if r.ApplicationID == applicationID {
			delete(m.results, id)
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        int64
	notifications map[int64]*entity.Notification
}

func newFakeNotificationRepo(notifications ...*entity.Notification) *fakeNotificationRepo {
	m := &fakeNotificationRepo{notifications: make(map[int64]*entity.Notification), nextID: 900}
	for _, n := range notifications {
		m.notifications[n.ID] = n
	}
	return m
}

func (m *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	notification.ID = m.nextID
	copied := *notification
	m.notifications[notification.ID] = &copied
	return nil
}

func (m *fakeNotificationRepo) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (m *fakeNotificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *fakeNotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *fakeNotificationRepo) MarkRead(ctx context.Context, id int64, readAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok || n.IsRead {
		return false, nil
	}
	n.IsRead = true
	t := readAt
	n.ReadAt = &t
	return true, nil
}

func (m *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID int64, readAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			t := readAt
			n.ReadAt = &t
		}
	}
	return nil
}

func (m *fakeNotificationRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.notifications, id)
	return nil
}

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]*entity.Feedback
}

func newFakeFeedbackRepo(entries ...*entity.Feedback) *fakeFeedbackRepo {
	m := &fakeFeedbackRepo{entries: make(map[int64]*entity.Feedback), nextID: 300}
	for _, f := range entries {
		m.entries[f.ID] = f
	}
	return m
}

func (m *fakeFeedbackRepo) Create(ctx context.Context, feedback *entity.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	feedback.ID = m.nextID
	copied := *feedback
	m.entries[feedback.ID] = &copied
	return nil
}

func (m *fakeFeedbackRepo) GetByID(ctx context.Context, id int64) (*entity.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *f
	return &copied, nil
}

func (m *fakeFeedbackRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entity.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Feedback
	for _, f := range m.entries {
		if f.OwnerID == ownerID {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *fakeFeedbackRepo) List(ctx context.Context, limit, offset int) ([]*entity.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Feedback
	for _, f := range m.entries {
		copied := *f
		out = append(out, &copied)
	}
	return out, nil
}

func (m *fakeFeedbackRepo) Reply(ctx context.Context, id int64, reply string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.entries[id]
	if !ok || f.Status != entity.FeedbackStatusSubmitted {
		return false, nil
	}
	r := reply
	f.AdminReply = &r
	f.Status = entity.FeedbackStatusCompleted
	return true, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	m := &fakeUserRepo{users: make(map[int64]*entity.User), nextID: 10}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return entity.ErrConflict
		}
	}
	m.nextID++
	user.ID = m.nextID
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *fakeUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *fakeUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	dispatchErr   error
}

func (m *fakeNotifier) Dispatch(ctx context.Context, userID int64, title, message, notifType string, ref entity.NotificationRef) (*entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dispatchErr != nil {
		return nil, m.dispatchErr
	}
	n := &entity.Notification{
		UserID:        userID,
		Title:         title,
		Message:       message,
		Type:          notifType,
		ApplicationID: ref.ApplicationID,
		FeedbackID:    ref.FeedbackID,
	}
	m.notifications = append(m.notifications, n)
	return n, nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

var (
	testAdmin = entity.Actor{ID: 99, Role: entity.RoleAdmin}
	testOwner = entity.Actor{ID: 7, Role: entity.RoleUser}
)
