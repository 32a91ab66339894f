package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"snapgram/models"
	"snapgram/repository"
)

type PostRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    *UserService
	images   *ImageService
}

func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, users *UserService, images *ImageService) *PostService {
	return &PostService{posts: posts, comments: comments, users: users, images: images}
}

func (s *PostService) CreatePost(ctx context.Context, userID string, req PostRequest) (*models.PostResponse, error) {
	req.Content = strings.TrimSpace(req.Content)
	req.Image = strings.TrimSpace(req.Image)
	if req.Content == "" && req.Image == "" {
		return nil, NewValidationError("a post needs content or an image")
	}

	post := &models.Post{
		AuthorID:  userID,
		Content:   req.Content,
		Image:     req.Image,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		log.Printf("[PostService] create post failed: %v", err)
		return nil, NewInternalError("failed to create post")
	}

	author, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := postResponse(post, author, userID, 0)
	return &resp, nil
}

func (s *PostService) GetPost(ctx context.Context, postID, viewerID string) (*models.PostResponse, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	resp, err := s.enrich(ctx, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

func (s *PostService) ListUserPosts(ctx context.Context, accountName, viewerID string, limit, skip int64) ([]models.PostResponse, error) {
	author, err := s.users.getByAccountName(ctx, accountName)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, []string{author.ID.Hex()}, viewerID, limit, skip)
}

// Feed lists posts by the users the viewer follows, newest first.
func (s *PostService) Feed(ctx context.Context, viewerID string, limit, skip int64) ([]models.PostResponse, error) {
	following, err := s.users.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []models.PostResponse{}, nil
	}
	return s.list(ctx, following, viewerID, limit, skip)
}

func (s *PostService) list(ctx context.Context, authorIDs []string, viewerID string, limit, skip int64) ([]models.PostResponse, error) {
	posts, err := s.posts.ListByAuthors(ctx, authorIDs, skip, limit)
	if err != nil {
		log.Printf("[PostService] list posts failed: %v", err)
		return nil, NewInternalError("failed to load posts")
	}
	return s.enrich(ctx, posts, viewerID)
}

// DeletePost removes a post with its comments and attached images.
func (s *PostService) DeletePost(ctx context.Context, postID, userID string) (string, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return "", err
	}
	if post.AuthorID != userID {
		return "", NewUnauthorizedError("only the author can delete this post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("[PostService] delete post %s failed: %v", postID, err)
		return "", NewInternalError("failed to delete post")
	}

	removed, err := s.comments.DeleteByPost(ctx, postID)
	if err != nil {
		log.Printf("[PostService] ⚠️  delete comments of %s failed: %v", postID, err)
	}
	if post.Image != "" {
		if err := s.images.DeleteImage(ctx, post.Image); err != nil {
			log.Printf("[PostService] ⚠️  delete images of %s failed: %v", postID, err)
		}
	}
	log.Printf("[PostService] 🗑️  post %s deleted with %d comments", postID, removed)
	return "post deleted", nil
}

func (s *PostService) findPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFoundError("post does not exist")
	}
	if err != nil {
		log.Printf("[PostService] find post %s failed: %v", postID, err)
		return nil, NewInternalError("failed to load post")
	}
	return post, nil
}

func (s *PostService) enrich(ctx context.Context, posts []models.Post, viewerID string) ([]models.PostResponse, error) {
	authors := make(map[string]*models.User)
	out := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		author, ok := authors[post.AuthorID]
		if !ok {
			var err error
			if author, err = s.users.GetUser(ctx, post.AuthorID); err != nil {
				return nil, err
			}
			authors[post.AuthorID] = author
		}

		count, err := s.comments.CountByPost(ctx, post.ID.Hex())
		if err != nil {
			log.Printf("[PostService] count comments of %s failed: %v", post.ID.Hex(), err)
			return nil, NewInternalError("failed to load posts")
		}
		out = append(out, postResponse(post, author, viewerID, count))
	}
	return out, nil
}

func postResponse(post *models.Post, author *models.User, viewerID string, commentCount int64) models.PostResponse {
	return models.PostResponse{
		ID:           post.ID.Hex(),
		Content:      post.Content,
		Image:        post.Image,
		CreatedAt:    post.CreatedAt,
		CommentCount: commentCount,
		Author:       author.ProfileFor(viewerID),
	}
}
