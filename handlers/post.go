package handlers

import (
	"net/http"

	"snapgram/httpx"
	"snapgram/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req struct {
		Post service.PostRequest `json:"post"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := h.posts.CreatePost(ctx, currentUserID(c), req.Post)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to create post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := h.posts.GetPost(ctx, c.Param("postId"), currentUserID(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Feed(c *gin.Context) {
	limit, skip, ok := pagination(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	posts, err := h.posts.Feed(ctx, currentUserID(c), limit, skip)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.posts.DeletePost(ctx, c.Param("postId"), currentUserID(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
