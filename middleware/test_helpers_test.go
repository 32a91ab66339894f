package middleware

import (
	"context"
	"testing"
	"time"

	"snapgram/service"
	"snapgram/testutils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAuth returns an AuthService with one registered user and a token for it.
func newAuth(t *testing.T) (*service.AuthService, string, string) {
	t.Helper()
	repo := testutils.NewMemoryUsers()
	users := service.NewUserService(repo)
	u, err := users.Signup(context.Background(), service.SignupRequest{
		Email:       "alice@example.com",
		Password:    "secret123",
		AccountName: "alice",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	auth := service.NewAuthService(repo, "test-secret", time.Hour)
	token, err := auth.Login(u)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return auth, u.ID.Hex(), token
}
