package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"snapgram/models"
	"snapgram/repository"
)

const minPasswordLength = 6

var accountNamePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	AccountName string `json:"accountname"`
	Intro       string `json:"intro"`
	Image       string `json:"image"`
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.AccountName = strings.TrimSpace(req.AccountName)
	req.Username = strings.TrimSpace(req.Username)

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, NewValidationError("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, NewValidationError("password must be at least 6 characters")
	}
	if !accountNamePattern.MatchString(req.AccountName) {
		return nil, NewValidationError("accountname may only contain letters, digits, '.' and '_'")
	}
	if req.Username == "" {
		req.Username = req.AccountName
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("[UserService] %v", err)
		return nil, NewInternalError("failed to create user")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Username:     req.Username,
		AccountName:  req.AccountName,
		Intro:        req.Intro,
		Image:        req.Image,
		Follower:     []string{},
		Following:    []string{},
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewConflictError("email or accountname already in use")
		}
		log.Printf("[UserService] create user failed: %v", err)
		return nil, NewInternalError("failed to create user")
	}
	log.Printf("[UserService] ✅ user %s registered", user.AccountName)
	return user, nil
}

// GetUser loads a user by id. Missing users map to 404.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFoundError("user does not exist")
	}
	if err != nil {
		log.Printf("[UserService] find user %s failed: %v", userID, err)
		return nil, NewInternalError("failed to load user")
	}
	return user, nil
}

func (s *UserService) getByAccountName(ctx context.Context, accountName string) (*models.User, error) {
	user, err := s.users.FindByAccountName(ctx, accountName)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFoundError("user does not exist")
	}
	if err != nil {
		log.Printf("[UserService] find user %q failed: %v", accountName, err)
		return nil, NewInternalError("failed to load user")
	}
	return user, nil
}

// MyInfo returns the caller's own profile together with the email address.
func (s *UserService) MyInfo(ctx context.Context, userID string) (*models.User, error) {
	return s.GetUser(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, accountName, viewerID string) (models.Profile, error) {
	user, err := s.getByAccountName(ctx, accountName)
	if err != nil {
		return models.Profile{}, err
	}
	return user.ProfileFor(viewerID), nil
}

func (s *UserService) Follow(ctx context.Context, accountName, viewerID string) (models.Profile, error) {
	return s.updateFollow(ctx, accountName, viewerID, true)
}

func (s *UserService) Unfollow(ctx context.Context, accountName, viewerID string) (models.Profile, error) {
	return s.updateFollow(ctx, accountName, viewerID, false)
}

func (s *UserService) updateFollow(ctx context.Context, accountName, viewerID string, follow bool) (models.Profile, error) {
	target, err := s.getByAccountName(ctx, accountName)
	if err != nil {
		return models.Profile{}, err
	}
	targetID := target.ID.Hex()
	if targetID == viewerID {
		return models.Profile{}, NewValidationError("you cannot follow yourself")
	}

	if follow {
		err = s.users.AddFollower(ctx, targetID, viewerID)
	} else {
		err = s.users.RemoveFollower(ctx, targetID, viewerID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return models.Profile{}, NewNotFoundError("user does not exist")
	}
	if err != nil {
		log.Printf("[UserService] follow update %s -> %s failed: %v", viewerID, targetID, err)
		return models.Profile{}, NewInternalError("failed to update follow status")
	}

	return s.GetProfile(ctx, accountName, viewerID)
}

// FollowingIDs returns the ids the user follows, used to build the feed.
func (s *UserService) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Following, nil
}
