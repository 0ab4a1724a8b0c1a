package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dinkominfo-bms/itsa-review/internal/application/workflow"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
)

func newResultService(appRepo *fakeAppRepo, resultRepo *fakeResultRepo, notifier *fakeNotifier) ResultService {
	engine := workflow.NewEngine(appRepo, fakeTxManager{}, notifier, nopLogger{})
	return NewResultService(resultRepo, appRepo, engine, notifier, fakeTxManager{}, nopLogger{})
}

func approvedApp(id int64) *entity.Application {
	return &entity.Application{ID: id, OwnerID: testOwner.ID, AppName: "SIMPEG", Status: entity.StatusApproved}
}

func TestAttachResult(t *testing.T) {
	appRepo := newFakeAppRepo(approvedApp(1))
	resultRepo := newFakeResultRepo()
	notifier := &fakeNotifier{}
	svc := newResultService(appRepo, resultRepo, notifier)
	ctx := context.Background()

	outcome, err := svc.AttachResult(ctx, 1, testAdmin, "assessment passed", "https://reports.bms.go.id/1", "")
	if err != nil {
		t.Fatalf("AttachResult() error = %v", err)
	}

	if outcome.Result.ID == 0 {
		t.Error("result should have an ID")
	}
	if outcome.Result.Link == nil || *outcome.Result.Link != "https://reports.bms.go.id/1" {
		t.Error("link should be stored")
	}
	if outcome.Result.Image != nil {
		t.Error("empty image should stay nil")
	}
	if outcome.DispatchWarning != nil {
		t.Errorf("unexpected dispatch warning: %v", outcome.DispatchWarning)
	}

	app, _ := appRepo.GetByID(ctx, 1)
	if app.Status != entity.StatusCompleted {
		t.Errorf("application status = %s, want %s", app.Status, entity.StatusCompleted)
	}

	if len(notifier.notifications) != 1 {
		t.Fatalf("dispatched %d notifications, want 1", len(notifier.notifications))
	}
	n := notifier.notifications[0]
	if n.UserID != testOwner.ID {
		t.Errorf("notification recipient = %d, want owner %d", n.UserID, testOwner.ID)
	}
	if n.Type != entity.NotificationTypeResultReady {
		t.Errorf("notification type = %s, want %s", n.Type, entity.NotificationTypeResultReady)
	}
}

func TestAttachResult_RequiresAdmin(t *testing.T) {
	svc := newResultService(newFakeAppRepo(approvedApp(1)), newFakeResultRepo(), &fakeNotifier{})

	_, err := svc.AttachResult(context.Background(), 1, testOwner, "passed", "", "")
	if !errors.Is(err, entity.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestAttachResult_RequiresDescription(t *testing.T) {
	svc := newResultService(newFakeAppRepo(approvedApp(1)), newFakeResultRepo(), &fakeNotifier{})

	_, err := svc.AttachResult(context.Background(), 1, testAdmin, "   ", "", "")
	if !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestAttachResult_RequiresApprovedStatus(t *testing.T) {
	for _, status := range []string{entity.StatusSubmitted, entity.StatusRevision, entity.StatusRejected, entity.StatusCompleted} {
		t.Run(status, func(t *testing.T) {
			appRepo := newFakeAppRepo(&entity.Application{ID: 1, OwnerID: testOwner.ID, Status: status})
			svc := newResultService(appRepo, newFakeResultRepo(), &fakeNotifier{})

			_, err := svc.AttachResult(context.Background(), 1, testAdmin, "passed", "", "")
			if !errors.Is(err, entity.ErrInvalidState) {
				t.Fatalf("error = %v, want ErrInvalidState", err)
			}

			app, _ := appRepo.GetByID(context.Background(), 1)
			if app.Status != status {
				t.Errorf("status mutated to %s", app.Status)
			}
		})
	}
}

func TestAttachResult_Duplicate(t *testing.T) {
	appRepo := newFakeAppRepo(approvedApp(1))
	resultRepo := newFakeResultRepo(&entity.Result{ID: 10, ApplicationID: 1, Description: "first"})
	svc := newResultService(appRepo, resultRepo, &fakeNotifier{})

	_, err := svc.AttachResult(context.Background(), 1, testAdmin, "second", "", "")
	if !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}

func TestAttachResult_SequentialAttachIsConflict(t *testing.T) {
	appRepo := newFakeAppRepo(approvedApp(1))
	resultRepo := newFakeResultRepo()
	svc := newResultService(appRepo, resultRepo, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.AttachResult(ctx, 1, testAdmin, "assessment passed", "", ""); err != nil {
		t.Fatalf("first AttachResult() error = %v", err)
	}

	// The first attach completed the application; the repeat must still
	// report the duplicate result, not the completed status.
	_, err := svc.AttachResult(ctx, 1, testAdmin, "again", "", "")
	if !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("second AttachResult() error = %v, want ErrConflict", err)
	}
}

func TestAttachResult_FailedCreateLeavesStatus(t *testing.T) {
	appRepo := newFakeAppRepo(approvedApp(1))
	resultRepo := newFakeResultRepo()
	resultRepo.createErr = errors.New("disk full")
	svc := newResultService(appRepo, resultRepo, &fakeNotifier{})

	_, err := svc.AttachResult(context.Background(), 1, testAdmin, "passed", "", "")
	if err == nil {
		t.Fatal("expected error from failed create")
	}

	app, _ := appRepo.GetByID(context.Background(), 1)
	if app.Status != entity.StatusApproved {
		t.Errorf("status = %s, completion must roll back with the result", app.Status)
	}
}

func TestAttachResult_DispatchFailureIsWarning(t *testing.T) {
	appRepo := newFakeAppRepo(approvedApp(1))
	notifier := &fakeNotifier{dispatchErr: errors.New("recipient gone")}
	svc := newResultService(appRepo, newFakeResultRepo(), notifier)

	outcome, err := svc.AttachResult(context.Background(), 1, testAdmin, "passed", "", "")
	if err != nil {
		t.Fatalf("AttachResult() error = %v, dispatch failure must not fail the attachment", err)
	}
	if outcome.DispatchWarning == nil {
		t.Error("dispatch failure should surface as a warning")
	}

	app, _ := appRepo.GetByID(context.Background(), 1)
	if app.Status != entity.StatusCompleted {
		t.Errorf("status = %s, want %s", app.Status, entity.StatusCompleted)
	}
}

func TestGetResultByApplication(t *testing.T) {
	appRepo := newFakeAppRepo(&entity.Application{ID: 1, OwnerID: testOwner.ID, Status: entity.StatusCompleted})
	resultRepo := newFakeResultRepo(&entity.Result{ID: 10, ApplicationID: 1, Description: "passed"})
	svc := newResultService(appRepo, resultRepo, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.GetByApplication(ctx, 1, testOwner); err != nil {
		t.Errorf("owner GetByApplication() error = %v", err)
	}

	stranger := entity.Actor{ID: 1234, Role: entity.RoleUser}
	if _, err := svc.GetByApplication(ctx, 1, stranger); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("stranger error = %v, want ErrForbidden", err)
	}
}

func TestUpdateResult(t *testing.T) {
	resultRepo := newFakeResultRepo(&entity.Result{ID: 10, ApplicationID: 1, Description: "old"})
	svc := newResultService(newFakeAppRepo(), resultRepo, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.UpdateResult(ctx, 10, testOwner, "new", "", ""); !errors.Is(err, entity.ErrForbidden) {
		t.Fatalf("user update error = %v, want ErrForbidden", err)
	}

	updated, err := svc.UpdateResult(ctx, 10, testAdmin, "new text", "https://x", "")
	if err != nil {
		t.Fatalf("UpdateResult() error = %v", err)
	}
	if updated.Description != "new text" {
		t.Errorf("description = %s", updated.Description)
	}
	if updated.Link == nil || *updated.Link != "https://x" {
		t.Error("link should be updated")
	}
}

func TestDeleteResult_CompletionIsSticky(t *testing.T) {
	appRepo := newFakeAppRepo(&entity.Application{ID: 1, OwnerID: testOwner.ID, Status: entity.StatusCompleted})
	resultRepo := newFakeResultRepo(&entity.Result{ID: 10, ApplicationID: 1, Description: "passed"})
	svc := newResultService(appRepo, resultRepo, &fakeNotifier{})
	ctx := context.Background()

	if err := svc.DeleteResult(ctx, 10, testAdmin); err != nil {
		t.Fatalf("DeleteResult() error = %v", err)
	}

	if r, _ := resultRepo.GetByID(ctx, 10); r != nil {
		t.Error("result should be deleted")
	}

	app, _ := appRepo.GetByID(ctx, 1)
	if app.Status != entity.StatusCompleted {
		t.Errorf("status = %s, completion must survive result deletion", app.Status)
	}
}
