package handlers

import (
	"log"
	"net/http"

	"snapgram/httpx"
	"snapgram/middleware"
	"snapgram/models"
	"snapgram/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// accountResponse is a user's own view of their account.
type accountResponse struct {
	models.Profile
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

func account(user *models.User, token string) accountResponse {
	return accountResponse{Profile: user.ProfileFor(user.ID.Hex()), Email: user.Email, Token: token}
}

// Login runs behind middleware.LocalAuthGuard, which has already checked the
// credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	user, ok := c.Get(middleware.ContextUser)
	authUser, isUser := user.(*models.User)
	if !ok || !isUser {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid access"})
		return
	}

	token, err := h.auth.Login(authUser)
	if err != nil {
		log.Printf("[Auth] issue token for %s failed: %v", authUser.ID.Hex(), err)
		httpx.WriteServiceError(c, err, "invalid access")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": account(authUser, token)})
}

func (h *AuthHandler) CheckToken(c *gin.Context) {
	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"isValid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isValid": h.auth.ValidateToken(token)})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		User service.SignupRequest `json:"user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.Signup(ctx, req.User)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": account(user, "")})
}

func (h *AuthHandler) MyInfo(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.MyInfo(ctx, currentUserID(c))
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account(user, "")})
}
