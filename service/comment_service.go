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

// CommentEvents receives comment changes for live delivery.
type CommentEvents interface {
	CommentCreated(postID string, comment models.CommentResponse)
	CommentDeleted(postID, commentID string)
}

// CommentNotifier tells a post author about a new comment. Implementations
// must not block the caller.
type CommentNotifier interface {
	NotifyComment(postID, commenterID string, comment models.CommentResponse)
}

type CommentService struct {
	comments repository.CommentRepository
	users    *UserService
	events   CommentEvents
	notifier CommentNotifier
}

func NewCommentService(comments repository.CommentRepository, users *UserService) *CommentService {
	return &CommentService{comments: comments, users: users}
}

func (s *CommentService) SetEvents(events CommentEvents) {
	s.events = events
}

func (s *CommentService) SetNotifier(notifier CommentNotifier) {
	s.notifier = notifier
}

func (s *CommentService) CreateComment(ctx context.Context, postID string, req models.CommentRequest, userID string) (*models.CommentEnvelope, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, NewValidationError("please enter a comment")
	}

	comment := &models.Comment{
		PostID:    postID,
		Content:   req.Content,
		AuthorID:  userID,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		log.Printf("[CommentService] create comment on %s failed: %v", postID, err)
		return nil, NewInternalError("failed to create comment")
	}

	resp, err := s.commentResponse(ctx, comment, userID, nil)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.CommentCreated(postID, resp)
	}
	if s.notifier != nil {
		s.notifier.NotifyComment(postID, userID, resp)
	}
	return &models.CommentEnvelope{Comment: resp}, nil
}

func (s *CommentService) GetCommentList(ctx context.Context, postID, userID string, limit, skip int64) (*models.CommentListEnvelope, error) {
	comments, err := s.comments.ListByPost(ctx, postID, skip, limit)
	if err != nil {
		log.Printf("[CommentService] list comments of %s failed: %v", postID, err)
		return nil, NewInternalError("failed to load comments")
	}

	authors := make(map[string]*models.User)
	list := make([]models.CommentResponse, 0, len(comments))
	for i := range comments {
		resp, err := s.commentResponse(ctx, &comments[i], userID, authors)
		if err != nil {
			return nil, err
		}
		list = append(list, resp)
	}
	return &models.CommentListEnvelope{Comment: list}, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID string) (string, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return "", err
	}
	if comment.AuthorID != userID {
		return "", NewUnauthorizedError("only the author can delete this comment")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", NewNotFoundError("comment does not exist")
		}
		log.Printf("[CommentService] delete comment %s failed: %v", commentID, err)
		return "", NewInternalError("failed to delete comment")
	}

	if s.events != nil {
		s.events.CommentDeleted(comment.PostID, commentID)
	}
	return "comment deleted", nil
}

func (s *CommentService) ReportComment(ctx context.Context, commentID string) (*models.ReportEnvelope, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	log.Printf("[CommentService] ⚠️  comment %s on post %s reported", commentID, comment.PostID)
	return &models.ReportEnvelope{Report: models.CommentReport{Comment: commentID}}, nil
}

func (s *CommentService) findComment(ctx context.Context, commentID string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewNotFoundError("comment does not exist")
	}
	if err != nil {
		log.Printf("[CommentService] find comment %s failed: %v", commentID, err)
		return nil, NewInternalError("failed to load comment")
	}
	return comment, nil
}

// commentResponse joins a comment with its author's profile. authors, when
// non-nil, caches lookups across one list call.
func (s *CommentService) commentResponse(ctx context.Context, comment *models.Comment, userID string, authors map[string]*models.User) (models.CommentResponse, error) {
	author, ok := authors[comment.AuthorID]
	if !ok {
		var err error
		author, err = s.users.GetUser(ctx, comment.AuthorID)
		if err != nil {
			return models.CommentResponse{}, err
		}
		if authors != nil {
			authors[comment.AuthorID] = author
		}
	}

	return models.CommentResponse{
		ID:        comment.ID.Hex(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    author.ProfileFor(userID),
	}, nil
}
