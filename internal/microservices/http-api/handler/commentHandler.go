package handler

import (
	"errors"
	"net/http"
	"strconv"

	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/service"
	"leafhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment-related routes (authenticated by parent middleware)
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Post comments
	postComments := router.Group("/posts/:post_id/comments")
	{
		postComments.GET("", h.ListByPost) // Get all comments for a post
		postComments.POST("", h.Create)    // Create a comment
	}

	// Like operations. PUT and DELETE because both are idempotent: the
	// client states the desired end-state instead of asking for a flip.
	comments := router.Group("/comments")
	{
		comments.PUT("/:id/like", h.Like)
		comments.DELETE("/:id/like", h.Unlike)
	}
}

// Create creates a new comment on a post
// POST /api/posts/:post_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	username := c.GetString("username")
	email := c.GetString("email")

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.CreateComment(userID.(string), username, email, postID, req.ParentCommentID, req.Content)
	if err != nil {
		if shared.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListByPost retrieves all comments for a post with pagination
// GET /api/posts/:post_id/comments?page=1&page_size=20
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	comments, err := h.commentService.GetPostComments(postID, page, pageSize)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Like adds the caller to the comment's liked-by set (idempotent)
// PUT /api/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return
	}

	email := c.GetString("email")

	result, err := h.commentService.Like(commentID, email)
	if err != nil {
		h.respondLikeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Unlike removes the caller from the comment's liked-by set (idempotent)
// DELETE /api/comments/:id/like
func (h *CommentHandler) Unlike(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return
	}

	email := c.GetString("email")

	result, err := h.commentService.Unlike(commentID, email)
	if err != nil {
		h.respondLikeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CommentHandler) respondLikeError(c *gin.Context, err error) {
	switch {
	case shared.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, shared.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, shared.ErrConcurrency):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent update, retry the request"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
