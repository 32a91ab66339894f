package repository

import (
	"context"

	"snapgram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPushSubscriptionRepository struct {
	coll *mongo.Collection
}

func NewPushSubscriptionRepository(db *mongo.Database) *MongoPushSubscriptionRepository {
	return &MongoPushSubscriptionRepository{coll: db.Collection("push_subscriptions")}
}

func (r *MongoPushSubscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"endpoint": sub.Endpoint},
		bson.M{"$set": bson.M{"userId": sub.UserID, "keys": sub.Keys}},
		options.Update().SetUpsert(true),
	)
	return translate(err)
}

func (r *MongoPushSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []models.PushSubscription{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *MongoPushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"endpoint": endpoint})
	return err
}
