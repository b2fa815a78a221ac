package posts

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"forumhub/pkg/common"

	gomock "github.com/golang/mock/gomock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type getByFilterCase struct {
	name      string
	cond      bson.M
	cursorErr error
	findErr   error
	f         func(ctx context.Context, r *PostsRepoMongo) ([]*Post, error)
}

const (
	tag    = "test_tag"
	author = "a@x.com"
)

var getByFilterCases = []getByFilterCase{
	{
		name: "GetAllHappyCase",
		cond: bson.M{},
		f: func(ctx context.Context, r *PostsRepoMongo) ([]*Post, error) {
			return r.GetAll(ctx)
		},
	},
	{
		name: "GetByTagHappyCase",
		cond: bson.M{"tag": tag},
		f: func(ctx context.Context, r *PostsRepoMongo) ([]*Post, error) {
			return r.GetByTag(ctx, tag)
		},
	},
	{
		name: "GetByAuthorHappyCase",
		cond: bson.M{"authorEmail": author},
		f: func(ctx context.Context, r *PostsRepoMongo) ([]*Post, error) {
			return r.GetByAuthor(ctx, author)
		},
	},
	{
		name: "SearchHappyCase",
		cond: bson.M{"title": primitive.Regex{Pattern: "golang", Options: "i"}},
		f: func(ctx context.Context, r *PostsRepoMongo) ([]*Post, error) {
			return r.Search(ctx, "golang")
		},
	},
	{
		name:    "FindErrorExpected",
		cond:    bson.M{},
		findErr: errors.New("error while calling find"),
		f: func(ctx context.Context, r *PostsRepoMongo) ([]*Post, error) {
			return r.GetAll(ctx)
		},
	},
	{
		name:      "CursorErrorExpected",
		cond:      bson.M{},
		cursorErr: errors.New("cursor error"),
		f: func(ctx context.Context, r *PostsRepoMongo) ([]*Post, error) {
			return r.GetAll(ctx)
		},
	},
}

func testPost(id interface{}) *Post {
	return &Post{
		ID:          id,
		Title:       "Generics in anger",
		Description: "test",
		Tag:         tag,
		AuthorEmail: author,
		AuthorName:  "A",
		TimeOfPost:  time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC),
		UpVote:      []string{},
		DownVote:    []string{},
	}
}

func TestGetByFilter(t *testing.T) {
	for _, c := range getByFilterCases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockCollection := common.NewMockCollectionHelper(ctrl)
			mockCursor := common.NewMockCursorHelper(ctrl)
			repo := &PostsRepoMongo{collection: mockCollection}

			ctx := context.Background()
			expectedPosts := []*Post{testPost(primitive.NewObjectID())}

			mockCollection.EXPECT().Find(ctx, c.cond, gomock.Any()).Return(mockCursor, c.findErr)
			if c.findErr == nil {
				mockCursor.EXPECT().Close(ctx).Return(nil)
				mockCursor.EXPECT().All(ctx, gomock.Any()).
					DoAndReturn(func(ctx context.Context, results interface{}) error {
						if c.cursorErr != nil {
							return c.cursorErr
						}
						*results.(*[]*Post) = expectedPosts
						return nil
					})
			}

			posts, err := c.f(ctx, repo)

			if c.findErr != nil || c.cursorErr != nil {
				if err == nil {
					t.Fatal("expected error, but was nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err.Error())
			}
			if !reflect.DeepEqual(posts, expectedPosts) {
				t.Errorf("expected %v, but was %v", expectedPosts, posts)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockInsertOneResultHelper(ctrl)
	repo := &PostsRepoMongo{collection: mockCollection}

	ctx := context.Background()
	p := testPost(nil)
	p.UpVote, p.DownVote = nil, nil
	insertedID := primitive.NewObjectID().Hex()

	mockCollection.EXPECT().InsertOne(ctx, p).Return(mockResult, nil)
	mockResult.EXPECT().GetInsertedID().Return(insertedID)

	id, err := repo.Add(ctx, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if id != insertedID {
		t.Errorf("expected %v, but was %v", insertedID, id)
	}
	if p.UpVote == nil || p.DownVote == nil {
		t.Error("expected vote sets to be initialized before insert")
	}
}

func TestDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockDeleteResultHelper(ctrl)
	repo := &PostsRepoMongo{collection: mockCollection}

	ctx := context.Background()
	id := primitive.NewObjectID()

	mockCollection.EXPECT().DeleteOne(ctx, bson.M{"_id": id}).Return(mockResult, nil)
	mockResult.EXPECT().GetDeletedCount().Return(int64(1))

	ok, err := repo.Delete(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !ok {
		t.Error("expected delete to report success")
	}

	mockCollection.EXPECT().DeleteOne(ctx, bson.M{"_id": id}).Return(mockResult, nil)
	mockResult.EXPECT().GetDeletedCount().Return(int64(0))

	ok, err = repo.Delete(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if ok {
		t.Error("expected delete to report missing document")
	}
}

func TestUpdateVotes(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockUpdateResultHelper(ctrl)
	repo := &PostsRepoMongo{collection: mockCollection}

	ctx := context.Background()
	id := primitive.NewObjectID()
	prev := VoteSets{Up: []string{}, Down: []string{}}
	next := VoteSets{Up: []string{author}, Down: []string{}}

	filter := bson.M{"_id": id, "upVote": prev.Up, "downVote": prev.Down}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "upVote", Value: next.Up},
			{Key: "downVote", Value: next.Down},
		}},
	}

	mockCollection.EXPECT().UpdateOne(ctx, filter, update).Return(mockResult, nil)
	mockResult.EXPECT().GetMatchedCount().Return(int64(1))

	ok, err := repo.UpdateVotes(ctx, id, prev, next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !ok {
		t.Error("expected guard to match")
	}

	// stale guard
	mockCollection.EXPECT().UpdateOne(ctx, filter, update).Return(mockResult, nil)
	mockResult.EXPECT().GetMatchedCount().Return(int64(0))

	ok, err = repo.UpdateVotes(ctx, id, prev, next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if ok {
		t.Error("expected stale guard to report a conflict")
	}
}

func TestGetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockSingleResultHelper(ctrl)
	repo := &PostsRepoMongo{collection: mockCollection}

	ctx := context.Background()
	id := primitive.NewObjectID()
	expected := testPost(id)

	mockCollection.EXPECT().FindOne(ctx, bson.M{"_id": id}).Return(mockResult)
	mockResult.EXPECT().Decode(gomock.Any()).DoAndReturn(func(v interface{}) error {
		*v.(*Post) = *expected
		return nil
	})

	post, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !reflect.DeepEqual(post, expected) {
		t.Errorf("expected %v, but was %v", expected, post)
	}
}

func TestParseID(t *testing.T) {
	repo := &PostsRepoMongo{}

	id := primitive.NewObjectID()
	parsed, err := repo.ParseID(id.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if parsed != id {
		t.Errorf("expected %v, but was %v", id, parsed)
	}

	if _, err := repo.ParseID("not-an-object-id"); err == nil {
		t.Fatal("expected error for malformed id")
	}
}
