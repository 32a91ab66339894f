package handlers

import (
	"net/http"

	"snapgram/httpx"
	"snapgram/models"
	"snapgram/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req struct {
		Comment models.CommentRequest `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.comments.CreateComment(ctx, c.Param("postId"), req.Comment, currentUserID(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to create comment")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) GetCommentList(c *gin.Context) {
	limit, skip, ok := pagination(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.comments.GetCommentList(ctx, c.Param("postId"), currentUserID(c), limit, skip)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load comments")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.comments.DeleteComment(ctx, c.Param("commentId"), currentUserID(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *CommentHandler) ReportComment(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.comments.ReportComment(ctx, c.Param("commentId"))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to report comment")
		return
	}
	c.JSON(http.StatusOK, resp)
}
