package service

import (
	"context"
	"testing"

	"snapgram/testutils"
)

func signup(t *testing.T, users *UserService, account string) string {
	t.Helper()
	u, err := users.Signup(context.Background(), SignupRequest{
		Email:       account + "@example.com",
		Password:    "secret123",
		Username:    account,
		AccountName: account,
	})
	if err != nil {
		t.Fatalf("signup %s: %v", account, err)
	}
	return u.ID.Hex()
}

func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !HasCode(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func newUserService() (*UserService, *testutils.MemoryUsers) {
	repo := testutils.NewMemoryUsers()
	return NewUserService(repo), repo
}
