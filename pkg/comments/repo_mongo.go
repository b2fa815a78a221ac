package comments

import (
	"context"

	"forumhub/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CommentRepoMongo struct {
	collection common.CollectionHelper
}

func NewCommentsRepoMongo(db *mongo.Database) *CommentRepoMongo {
	return &CommentRepoMongo{collection: &common.MongoCollection{Collection: db.Collection("comments")}}
}

func (repo *CommentRepoMongo) GetByPostID(ctx context.Context, id interface{}) ([]*Comment, error) {
	return repo.getByFilter(ctx, bson.M{"postID": id})
}

// GetReported returns comments whose feedback field is non-empty.
func (repo *CommentRepoMongo) GetReported(ctx context.Context) ([]*Comment, error) {
	return repo.getByFilter(ctx, bson.M{"feedback": bson.M{"$ne": ""}})
}

func (repo *CommentRepoMongo) GetByID(ctx context.Context, id interface{}) (*Comment, error) {
	res := repo.collection.FindOne(ctx, bson.M{"_id": id})

	comment := &Comment{}
	err := res.Decode(comment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (repo *CommentRepoMongo) Add(ctx context.Context, comment *Comment) (interface{}, error) {
	res, err := repo.collection.InsertOne(ctx, comment)
	if err != nil {
		return nil, err
	}

	return res.GetInsertedID(), nil
}

// Report stores the feedback text on the comment. Reports false when the
// comment no longer exists.
func (repo *CommentRepoMongo) Report(ctx context.Context, id interface{}, feedback string) (bool, error) {
	res, err := repo.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "feedback", Value: feedback}}},
		})
	if err != nil {
		return false, err
	}

	return res.GetMatchedCount() > 0, nil
}

func (repo *CommentRepoMongo) Delete(ctx context.Context, id interface{}) (bool, error) {
	res, err := repo.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}

	if res.GetDeletedCount() == 0 {
		return false, nil
	}

	return true, nil
}

func (repo *CommentRepoMongo) ParseID(in string) (interface{}, error) {
	return primitive.ObjectIDFromHex(in)
}

func (repo *CommentRepoMongo) getByFilter(ctx context.Context, filter bson.M) ([]*Comment, error) {
	cur, err := repo.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	defer cur.Close(ctx)

	var comments []*Comment
	err = cur.All(ctx, &comments)
	if err != nil {
		return nil, err
	}

	return comments, nil
}
