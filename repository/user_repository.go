package repository

import (
	"context"
	"fmt"

	"snapgram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("users")}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Follower == nil {
		user.Follower = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	_, err := r.coll.InsertOne(ctx, user)
	return translate(err)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByAccountName(ctx context.Context, accountName string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"accountname": accountName})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) AddFollower(ctx context.Context, targetID, followerID string) error {
	return r.updateFollow(ctx, targetID, followerID, "$addToSet")
}

func (r *MongoUserRepository) RemoveFollower(ctx context.Context, targetID, followerID string) error {
	return r.updateFollow(ctx, targetID, followerID, "$pull")
}

func (r *MongoUserRepository) updateFollow(ctx context.Context, targetID, followerID, op string) error {
	target, err := objectID(targetID)
	if err != nil {
		return err
	}
	follower, err := objectID(followerID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": target}, bson.M{op: bson.M{"follower": followerID}})
	if err != nil {
		return fmt.Errorf("update follower list: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": follower}, bson.M{op: bson.M{"following": targetID}}); err != nil {
		return fmt.Errorf("update following list: %w", err)
	}
	return nil
}
