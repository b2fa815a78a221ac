package announcements

import (
	"context"

	"forumhub/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnnouncementsRepoMongo struct {
	collection common.CollectionHelper
}

func NewAnnouncementsRepoMongo(db *mongo.Database) *AnnouncementsRepoMongo {
	return &AnnouncementsRepoMongo{collection: &common.MongoCollection{Collection: db.Collection("announcements")}}
}

func (r *AnnouncementsRepoMongo) GetAll(ctx context.Context) ([]*Announcement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "postedAt", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	defer cur.Close(ctx)

	var result []*Announcement
	err = cur.All(ctx, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *AnnouncementsRepoMongo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *AnnouncementsRepoMongo) Add(ctx context.Context, a *Announcement) (interface{}, error) {
	res, err := r.collection.InsertOne(ctx, a)
	if err != nil {
		return nil, err
	}

	return res.GetInsertedID(), nil
}

func (r *AnnouncementsRepoMongo) Delete(ctx context.Context, id interface{}) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}

	if res.GetDeletedCount() == 0 {
		return false, nil
	}

	return true, nil
}

func (r *AnnouncementsRepoMongo) ParseID(in string) (interface{}, error) {
	return primitive.ObjectIDFromHex(in)
}
