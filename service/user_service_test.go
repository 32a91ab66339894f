package service

import (
	"context"
	"testing"
)

func TestUserService_Signup(t *testing.T) {
	users, _ := newUserService()
	ctx := context.Background()

	signup(t, users, "carol")

	_, err := users.Signup(ctx, SignupRequest{Email: "carol@example.com", Password: "secret123", AccountName: "carol2"})
	assertCode(t, err, ErrorCodeConflict)

	_, err = users.Signup(ctx, SignupRequest{Email: "dave@example.com", Password: "123", AccountName: "dave"})
	assertCode(t, err, ErrorCodeValidation)

	_, err = users.Signup(ctx, SignupRequest{Email: "dave@example.com", Password: "secret123", AccountName: "bad name!"})
	assertCode(t, err, ErrorCodeValidation)

	u, err := users.Signup(ctx, SignupRequest{Email: "dave@example.com", Password: "secret123", AccountName: "dave"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Username != "dave" {
		t.Fatalf("username should default to accountname, got %q", u.Username)
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestUserService_FollowUnfollow(t *testing.T) {
	users, _ := newUserService()
	ctx := context.Background()
	aliceID := signup(t, users, "alice")
	bobID := signup(t, users, "bob")

	profile, err := users.Follow(ctx, "bob", aliceID)
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if !profile.IsFollow || profile.FollowerCount != 1 {
		t.Fatalf("expected alice to follow bob, got %+v", profile)
	}

	following, err := users.FollowingIDs(ctx, aliceID)
	if err != nil {
		t.Fatalf("FollowingIDs: %v", err)
	}
	if len(following) != 1 || following[0] != bobID {
		t.Fatalf("unexpected following list: %v", following)
	}

	profile, err = users.Unfollow(ctx, "bob", aliceID)
	if err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if profile.IsFollow || profile.FollowerCount != 0 {
		t.Fatalf("expected unfollowed profile, got %+v", profile)
	}

	_, err = users.Follow(ctx, "alice", aliceID)
	assertCode(t, err, ErrorCodeValidation)

	_, err = users.Follow(ctx, "nobody", aliceID)
	assertCode(t, err, ErrorCodeNotFound)
}

func TestUserService_GetUserMissing(t *testing.T) {
	users, _ := newUserService()

	_, err := users.GetUser(context.Background(), "not-an-object-id")
	assertCode(t, err, ErrorCodeNotFound)

	_, err = users.GetProfile(context.Background(), "ghost", "")
	assertCode(t, err, ErrorCodeNotFound)
}
