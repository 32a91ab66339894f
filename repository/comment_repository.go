package repository

import (
	"context"

	"snapgram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{coll: db.Collection("comments")}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, comment)
	return translate(err)
}

func (r *MongoCommentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&comment); err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID string, skip, limit int64) ([]models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"postId": postID})
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
