package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-app/taskflow-api/internal/dto"
	apierrors "github.com/taskflow-app/taskflow-api/internal/errors"
	"github.com/taskflow-app/taskflow-api/internal/middleware"
	"github.com/taskflow-app/taskflow-api/internal/services"
)

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// AddComment creates a comment on a task.
func (h *CommentHandler) AddComment(c *gin.Context) {
	type AddRequest struct {
		TaskID  uint64 `json:"task_id" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	comment, err := h.commentService.AddComment(req.TaskID, userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListTaskComments lists a task's comments.
func (h *CommentHandler) ListTaskComments(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	comments, err := h.commentService.ListComments(taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
	})
}

// GetComment returns a single comment.
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	comment, err := h.commentService.GetComment(commentID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// UpdateComment edits a comment; author-only.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	type UpdateRequest struct {
		Content string `json:"content" binding:"required"`
	}

	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	comment, err := h.commentService.UpdateComment(commentID, userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment; author-only.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := h.commentService.DeleteComment(commentID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
