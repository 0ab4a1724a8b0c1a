package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dinkominfo-bms/itsa-review/internal/application/service"
	"github.com/dinkominfo-bms/itsa-review/internal/application/workflow"
	"github.com/dinkominfo-bms/itsa-review/internal/domain/entity"
	domainwf "github.com/dinkominfo-bms/itsa-review/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	authService         service.AuthService
	submissionService   service.SubmissionService
	resultService       service.ResultService
	notificationService service.NotificationService
	feedbackService     service.FeedbackService
	engine              workflow.Engine
	logger              Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	authService service.AuthService,
	submissionService service.SubmissionService,
	resultService service.ResultService,
	notificationService service.NotificationService,
	feedbackService service.FeedbackService,
	engine workflow.Engine,
	logger Logger,
) *Handlers {
	return &Handlers{
		authService:         authService,
		submissionService:   submissionService,
		resultService:       resultService,
		notificationService: notificationService,
		feedbackService:     feedbackService,
		engine:              engine,
		logger:              logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// TransitionRequest represents a status transition payload
type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
	Reply  string `json:"reply"`
}

// ResultRequest represents the result attachment payload
type ResultRequest struct {
	Description string `json:"description"`
	Link        string `json:"link"`
	Image       string `json:"image"`
}

// FeedbackRequest represents the feedback submission payload
type FeedbackRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// FeedbackReplyRequest represents the feedback reply payload
type FeedbackReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// listQuery represents common pagination query parameters
type listQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (q *listQuery) normalize() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// Register handles POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	role := entity.Role(req.Role)
	if req.Role == "" {
		role = entity.RoleUser
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		h.respondError(c, "registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    user,
	})
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Do not disclose whether the account exists
		if errors.Is(err, entity.ErrForbidden) || errors.Is(err, entity.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid credentials",
			})
			return
		}
		h.respondError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    LoginResponse{Token: token, User: user},
	})
}

// CreateApplication handles POST /api/applications
func (h *Handlers) CreateApplication(c *gin.Context) {
	var fields entity.ApplicationFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	actor := currentActor(c)
	app, err := h.submissionService.Create(c.Request.Context(), actor.ID, fields)
	if err != nil {
		h.respondError(c, "failed to create application", err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    app,
	})
}

// ListApplications handles GET /api/applications
func (h *Handlers) ListApplications(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}
	q.normalize()

	apps, err := h.submissionService.List(c.Request.Context(), currentActor(c), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, "failed to list applications", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    apps,
	})
}

// GetApplication handles GET /api/applications/:id
func (h *Handlers) GetApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	app, err := h.submissionService.Get(c.Request.Context(), id, currentActor(c))
	if err != nil {
		h.respondError(c, "failed to get application", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    app,
	})
}

// UpdateApplication handles PUT /api/applications/:id
func (h *Handlers) UpdateApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var fields entity.ApplicationFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	app, err := h.submissionService.Update(c.Request.Context(), id, currentActor(c), fields)
	if err != nil {
		h.respondError(c, "failed to update application", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    app,
	})
}

// DeleteApplication handles DELETE /api/applications/:id
func (h *Handlers) DeleteApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), id, currentActor(c)); err != nil {
		h.respondError(c, "failed to delete application", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// TransitionApplication handles POST /api/applications/:id/transition
func (h *Handlers) TransitionApplication(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	result, err := h.engine.RequestTransition(
		c.Request.Context(),
		id,
		currentActor(c),
		domainwf.State(req.Target),
		req.Reply,
	)
	if err != nil {
		h.respondError(c, "transition rejected", err)
		return
	}

	resp := Response{
		Success: true,
		Data:    result.Application,
	}
	if result.DispatchWarning != nil {
		resp.Warning = "status changed but owner notification could not be delivered"
	}

	c.JSON(http.StatusOK, resp)
}

// AttachResult handles POST /api/applications/:id/result
func (h *Handlers) AttachResult(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	outcome, err := h.resultService.AttachResult(
		c.Request.Context(),
		id,
		currentActor(c),
		req.Description,
		req.Link,
		req.Image,
	)
	if err != nil {
		h.respondError(c, "failed to attach result", err)
		return
	}

	resp := Response{
		Success: true,
		Data:    outcome.Result,
	}
	if outcome.DispatchWarning != nil {
		resp.Warning = "result attached but owner notification could not be delivered"
	}

	c.JSON(http.StatusCreated, resp)
}

// GetResult handles GET /api/applications/:id/result
func (h *Handlers) GetResult(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.resultService.GetByApplication(c.Request.Context(), id, currentActor(c))
	if err != nil {
		h.respondError(c, "failed to get result", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// UpdateResult handles PUT /api/results/:id
func (h *Handlers) UpdateResult(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	result, err := h.resultService.UpdateResult(
		c.Request.Context(),
		id,
		currentActor(c),
		req.Description,
		req.Link,
		req.Image,
	)
	if err != nil {
		h.respondError(c, "failed to update result", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// DeleteResult handles DELETE /api/results/:id
func (h *Handlers) DeleteResult(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.resultService.DeleteResult(c.Request.Context(), id, currentActor(c)); err != nil {
		h.respondError(c, "failed to delete result", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}
	q.normalize()

	actor := currentActor(c)
	notifications, err := h.notificationService.ListByUser(c.Request.Context(), actor.ID, q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, "failed to list notifications", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    notifications,
	})
}

// CountUnreadNotifications handles GET /api/notifications/unread-count
func (h *Handlers) CountUnreadNotifications(c *gin.Context) {
	actor := currentActor(c)
	count, err := h.notificationService.CountUnread(c.Request.Context(), actor.ID)
	if err != nil {
		h.respondError(c, "failed to count unread notifications", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"unread": count},
	})
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id, currentActor(c))
	if err != nil {
		h.respondError(c, "failed to mark notification read", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    notification,
	})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	actor := currentActor(c)
	if err := h.notificationService.MarkAllRead(c.Request.Context(), actor.ID); err != nil {
		h.respondError(c, "failed to mark notifications read", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (h *Handlers) DeleteNotification(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id, currentActor(c)); err != nil {
		h.respondError(c, "failed to delete notification", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// SubmitFeedback handles POST /api/feedback
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	actor := currentActor(c)
	feedback, err := h.feedbackService.Submit(c.Request.Context(), actor.ID, req.Subject, req.Message)
	if err != nil {
		h.respondError(c, "failed to submit feedback", err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    feedback,
	})
}

// ListFeedback handles GET /api/feedback
func (h *Handlers) ListFeedback(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}
	q.normalize()

	feedback, err := h.feedbackService.List(c.Request.Context(), currentActor(c), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, "failed to list feedback", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    feedback,
	})
}

// GetFeedback handles GET /api/feedback/:id
func (h *Handlers) GetFeedback(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.Get(c.Request.Context(), id, currentActor(c))
	if err != nil {
		h.respondError(c, "failed to get feedback", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    feedback,
	})
}

// ReplyFeedback handles POST /api/feedback/:id/reply
func (h *Handlers) ReplyFeedback(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req FeedbackReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	outcome, err := h.feedbackService.Reply(c.Request.Context(), id, currentActor(c), req.Reply)
	if err != nil {
		h.respondError(c, "failed to reply to feedback", err)
		return
	}

	resp := Response{
		Success: true,
		Data:    outcome.Feedback,
	}
	if outcome.DispatchWarning != nil {
		resp.Warning = "reply saved but submitter notification could not be delivered"
	}

	c.JSON(http.StatusOK, resp)
}

// pathID parses the :id path parameter, responding with 400 on failure
func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Error("Invalid path ID", "id", idStr, "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid ID",
		})
		return 0, false
	}
	return id, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "error", err)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

// respondError maps application errors onto HTTP statuses
func (h *Handlers) respondError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrValidation), errors.Is(err, domainwf.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrConflict),
		errors.Is(err, entity.ErrInvalidState),
		errors.Is(err, domainwf.ErrInvalidTransition):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(msg, "error", err, "path", c.Request.URL.Path)
		c.JSON(status, Response{
			Success: false,
			Error:   msg,
		})
		return
	}

	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}
