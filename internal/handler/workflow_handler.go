package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
	"github.com/technews/technews-backend/internal/middleware"
)

// WorkflowService is the surface the handler needs. AutoPublish is
// deliberately absent: it belongs to the poller, not to HTTP callers.
type WorkflowService interface {
	SubmitForReview(postID uint, actor domain.Actor, comment string) (domain.PostStatus, error)
	Approve(postID uint, actor domain.Actor, comment string) (domain.PostStatus, error)
	Reject(postID uint, actor domain.Actor, comment string) (domain.PostStatus, error)
	Schedule(postID uint, actor domain.Actor, publishAt time.Time, comment string) (domain.PostStatus, error)
	ListPendingReview() ([]domain.PendingReviewItem, error)
	GetHistory(postID uint) ([]domain.WorkflowLogView, error)
}

// WorkflowHandler exposes the editorial workflow API
type WorkflowHandler struct {
	service WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(service WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

type workflowActionRequest struct {
	Comment string `json:"comment"`
}

type scheduleRequest struct {
	PublishAt time.Time `json:"publish_at" binding:"required"`
	Comment   string    `json:"comment"`
}

type statusResponse struct {
	ID     uint              `json:"id"`
	Status domain.PostStatus `json:"status"`
}

// Submit handles POST /api/workflow/submit/:id
func (h *WorkflowHandler) Submit(c *gin.Context) {
	h.runAction(c, h.service.SubmitForReview)
}

// Approve handles POST /api/workflow/approve/:id
func (h *WorkflowHandler) Approve(c *gin.Context) {
	h.runAction(c, h.service.Approve)
}

// Reject handles POST /api/workflow/reject/:id
func (h *WorkflowHandler) Reject(c *gin.Context) {
	h.runAction(c, h.service.Reject)
}

// Schedule handles POST /api/workflow/schedule/:id
func (h *WorkflowHandler) Schedule(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "publish_at is required", err)
		return
	}

	status, err := h.service.Schedule(postID, middleware.GetActor(c), req.PublishAt, req.Comment)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	common.SuccessResponse(c, statusResponse{ID: postID, Status: status}, nil)
}

// Pending handles GET /api/workflow/pending
func (h *WorkflowHandler) Pending(c *gin.Context) {
	items, err := h.service.ListPendingReview()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	common.SuccessResponse(c, items, &common.Meta{Total: int64(len(items))})
}

// Logs handles GET /api/workflow/logs/:id
func (h *WorkflowHandler) Logs(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	views, err := h.service.GetHistory(postID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	common.SuccessResponse(c, views, &common.Meta{Total: int64(len(views))})
}

// runAction is the shared body for comment-only write operations
func (h *WorkflowHandler) runAction(c *gin.Context, op func(uint, domain.Actor, string) (domain.PostStatus, error)) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req workflowActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	status, err := op(postID, middleware.GetActor(c), req.Comment)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	common.SuccessResponse(c, statusResponse{ID: postID, Status: status}, nil)
}

func parsePostID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid post id", err)
		return 0, false
	}
	return uint(id), true
}

// respondWorkflowError maps the service error taxonomy onto HTTP. Engine
// errors carry the current status so the UI can explain why the request
// failed; storage errors are never surfaced verbatim.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "post not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "you may not perform this action on this post", err)
	case errors.Is(err, common.ErrValidation):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, common.ErrInvalidTransition):
		common.ErrorResponse(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, common.ErrVersionConflict):
		common.ErrorResponse(c, http.StatusConflict, "post was modified concurrently, reload and retry", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "internal server error", err)
	}
}
