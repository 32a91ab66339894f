package handlers

import (
	"context"
	"net/http"

	"snapgram/httpx"
	"snapgram/models"
	"snapgram/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	users *service.UserService
	posts *service.PostService
}

func NewProfileHandler(users *service.UserService, posts *service.PostService) *ProfileHandler {
	return &ProfileHandler{users: users, posts: posts}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	h.respond(c, h.users.GetProfile)
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	h.respond(c, h.users.Follow)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	h.respond(c, h.users.Unfollow)
}

func (h *ProfileHandler) respond(c *gin.Context, op func(ctx context.Context, accountName, viewerID string) (models.Profile, error)) {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := op(ctx, c.Param("accountname"), currentUserID(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) ListPosts(c *gin.Context) {
	limit, skip, ok := pagination(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	posts, err := h.posts.ListUserPosts(ctx, c.Param("accountname"), currentUserID(c), limit, skip)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": posts})
}
