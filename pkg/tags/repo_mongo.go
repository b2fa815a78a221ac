package tags

import (
	"context"

	"forumhub/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TagsRepoMongo struct {
	collection common.CollectionHelper
}

func NewTagsRepoMongo(db *mongo.Database) *TagsRepoMongo {
	return &TagsRepoMongo{collection: &common.MongoCollection{Collection: db.Collection("tags")}}
}

func (r *TagsRepoMongo) GetAll(ctx context.Context) ([]*Tag, error) {
	cur, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	defer cur.Close(ctx)

	var result []*Tag
	err = cur.All(ctx, &result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
