package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dinkominfo-bms/itsa-review/internal/application/port"
	"github.com/dinkominfo-bms/itsa-review/internal/application/workflow"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
)

// FeedbackService runs the lighter parallel review flow: a feedback
// entry is submitted once, and a single admin reply completes it.
type FeedbackService interface {
	Submit(ctx context.Context, ownerID int64, subject, message string) (*entity.Feedback, error)
	Get(ctx context.Context, id int64, actor entity.Actor) (*entity.Feedback, error)
	List(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.Feedback, error)

	// Reply sets the admin reply and completes the feedback in one
	// step, then dispatches a reply-received notification to the owner.
	Reply(ctx context.Context, id int64, actor entity.Actor, reply string) (*ReplyOutcome, error)
}

// ReplyOutcome is the result of a successful feedback reply
type ReplyOutcome struct {
	Feedback *entity.Feedback

	// DispatchWarning is set when the reply notification failed after
	// the reply was committed
	DispatchWarning error
}

type feedbackServiceImpl struct {
	feedbackRepo port.FeedbackRepository
	notifier     workflow.Notifier
	logger       Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(
	feedbackRepo port.FeedbackRepository,
	notifier workflow.Notifier,
	logger Logger,
) FeedbackService {
	return &feedbackServiceImpl{
		feedbackRepo: feedbackRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// Submit stores a new feedback entry in submitted state
func (s *feedbackServiceImpl) Submit(ctx context.Context, ownerID int64, subject, message string) (*entity.Feedback, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: feedback subject is required", entity.ErrValidation)
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: feedback message is required", entity.ErrValidation)
	}

	feedback := &entity.Feedback{
		OwnerID: ownerID,
		Subject: subject,
		Message: message,
		Status:  entity.FeedbackStatusSubmitted,
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		s.logger.Error("Failed to create feedback", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.logger.Info("Feedback submitted", "feedback_id", feedback.ID, "owner_id", ownerID)
	return feedback, nil
}

// Get loads a feedback entry, restricted to its owner and administrators
func (s *feedbackServiceImpl) Get(ctx context.Context, id int64, actor entity.Actor) (*entity.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	if feedback == nil {
		return nil, fmt.Errorf("%w: feedback %d", entity.ErrNotFound, id)
	}
	if !actor.IsAdmin() && actor.ID != feedback.OwnerID {
		return nil, fmt.Errorf("%w: feedback %d belongs to another user", entity.ErrForbidden, id)
	}
	return feedback, nil
}

// List returns feedback visible to the actor: admins see all, users
// see their own
func (s *feedbackServiceImpl) List(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.Feedback, error) {
	if actor.IsAdmin() {
		return s.feedbackRepo.List(ctx, limit, offset)
	}
	return s.feedbackRepo.ListByOwner(ctx, actor.ID, limit, offset)
}

// Reply sets the admin reply and completes the feedback atomically
func (s *feedbackServiceImpl) Reply(ctx context.Context, id int64, actor entity.Actor, reply string) (*ReplyOutcome, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: replying to feedback requires admin role", entity.ErrForbidden)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("%w: reply text is required", entity.ErrValidation)
	}

	feedback, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	if feedback == nil {
		return nil, fmt.Errorf("%w: feedback %d", entity.ErrNotFound, id)
	}

	replied, err := s.feedbackRepo.Reply(ctx, id, reply)
	if err != nil {
		return nil, fmt.Errorf("reply feedback: %w", err)
	}
	if !replied {
		return nil, fmt.Errorf("%w: feedback %d is already completed", entity.ErrInvalidState, id)
	}

	updated, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload feedback: %w", err)
	}

	s.logger.Info("Feedback replied", "feedback_id", id, "actor_id", actor.ID)

	outcome := &ReplyOutcome{Feedback: updated}

	message := fmt.Sprintf("An administrator replied to your feedback %q: %s", feedback.Subject, reply)
	_, warn := s.notifier.Dispatch(ctx, feedback.OwnerID, "Feedback Reply", message,
		entity.NotificationTypeReplyReceived, entity.FeedbackRef(id))
	if warn != nil {
		s.logger.Warn("Feedback reply notification dispatch failed",
			"feedback_id", id,
			"error", warn,
		)
		outcome.DispatchWarning = warn
	}

	return outcome, nil
}
