package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"snapgram/httpx"
	"snapgram/models"
	"snapgram/service"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "userId"
	ContextUser   = "user"
)

type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// JWTAuth requires a valid access token in the Authorization header or the
// token query parameter and stores the user id under ContextUserID.
func JWTAuth(auth TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// CORS preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			token := c.Query("token")
			if token == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			authHeader = "Bearer " + token
		}

		tokenString, ok := BearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be: Bearer <token>"})
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			log.Printf("[Auth] token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

type CredentialValidator interface {
	ValidateUser(ctx context.Context, email, password string) (*models.User, error)
}

type loginBody struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// LocalAuthGuard checks {user: {email, password}} and stores the matching
// user under ContextUser.
func LocalAuthGuard(validator CredentialValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body loginBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user, err := validator.ValidateUser(c.Request.Context(), body.User.Email, body.User.Password)
		if err != nil {
			httpx.WriteServiceError(c, err, "invalid access")
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}
