package repository

import (
	"context"

	"snapgram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoImageRepository struct {
	coll *mongo.Collection
}

func NewImageRepository(db *mongo.Database) *MongoImageRepository {
	return &MongoImageRepository{coll: db.Collection("images")}
}

func (r *MongoImageRepository) Create(ctx context.Context, image *models.Image) error {
	if image.ID.IsZero() {
		image.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, image)
	return translate(err)
}

func (r *MongoImageRepository) DeleteByFilename(ctx context.Context, filename string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"filename": filename})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
