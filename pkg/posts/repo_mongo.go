package posts

import (
	"context"

	"forumhub/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostsRepoMongo struct {
	collection common.CollectionHelper
}

func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func NewPostsRepoMongo(db *mongo.Database) *PostsRepoMongo {
	return &PostsRepoMongo{collection: &common.MongoCollection{Collection: db.Collection("posts")}}
}

func (r *PostsRepoMongo) GetAll(ctx context.Context) ([]*Post, error) {
	return r.getByFilter(ctx, bson.M{})
}

func (r *PostsRepoMongo) GetByTag(ctx context.Context, tag string) ([]*Post, error) {
	return r.getByFilter(ctx, bson.M{"tag": tag})
}

func (r *PostsRepoMongo) GetByAuthor(ctx context.Context, email string) ([]*Post, error) {
	return r.getByFilter(ctx, bson.M{"authorEmail": email})
}

func (r *PostsRepoMongo) Search(ctx context.Context, query string) ([]*Post, error) {
	return r.getByFilter(ctx, bson.M{"title": primitive.Regex{Pattern: query, Options: "i"}})
}

func (r *PostsRepoMongo) GetByID(ctx context.Context, id interface{}) (*Post, error) {
	res := r.collection.FindOne(ctx, bson.M{"_id": id})

	post := &Post{}
	err := res.Decode(post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *PostsRepoMongo) Add(ctx context.Context, p *Post) (interface{}, error) {
	if p.UpVote == nil {
		p.UpVote = []string{}
	}
	if p.DownVote == nil {
		p.DownVote = []string{}
	}

	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}

	return res.GetInsertedID(), nil
}

func (r *PostsRepoMongo) Delete(ctx context.Context, id interface{}) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}

	if res.GetDeletedCount() == 0 {
		return false, nil
	}

	return true, nil
}

// UpdateVotes persists next only if the document still carries prev, so a
// concurrent toggle cannot be silently overwritten. Returns false when the
// guard did not match; the caller re-reads and retries.
func (r *PostsRepoMongo) UpdateVotes(ctx context.Context, id interface{}, prev, next VoteSets) (bool, error) {
	filter := bson.M{
		"_id":      id,
		"upVote":   prev.Up,
		"downVote": prev.Down,
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "upVote", Value: next.Up},
			{Key: "downVote", Value: next.Down},
		}},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return res.GetMatchedCount() > 0, nil
}

func (r *PostsRepoMongo) ParseID(in string) (interface{}, error) {
	return primitive.ObjectIDFromHex(in)
}

func (r *PostsRepoMongo) getByFilter(ctx context.Context, filter bson.M) ([]*Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timeOfPost", Value: -1}})
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	defer cur.Close(ctx)

	var posts []*Post
	err = cur.All(ctx, &posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}
