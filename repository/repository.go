// Package repository holds the persistence contracts used by the services and
// their MongoDB implementations.
package repository

import (
	"context"
	"errors"

	"snapgram/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByAccountName(ctx context.Context, accountName string) (*models.User, error)
	// AddFollower records followerID following targetID on both documents.
	AddFollower(ctx context.Context, targetID, followerID string) error
	RemoveFollower(ctx context.Context, targetID, followerID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	// ListByAuthors returns the newest posts first.
	ListByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, error)
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns comments in creation order.
	ListByPost(ctx context.Context, postID string, skip, limit int64) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	DeleteByFilename(ctx context.Context, filename string) (int64, error)
}

type PushSubscriptionRepository interface {
	// Upsert stores the subscription keyed by endpoint.
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

// objectID parses a hex id. A malformed id can never match a document, so it
// is reported as ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
