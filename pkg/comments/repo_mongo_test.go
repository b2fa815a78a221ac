package comments

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

var created = time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)

func testComment(id, postID interface{}) *Comment {
	return &Comment{
		ID:      id,
		PostID:  postID,
		Email:   "a@x.com",
		Name:    "A",
		Message: "test comment",
		Created: created,
	}
}

func TestGetByPostID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockCursor := common.NewMockCursorHelper(ctrl)
	repo := &CommentRepoMongo{collection: mockCollection}

	ctx := context.Background()
	postID := primitive.NewObjectID()
	expected := []*Comment{testComment(primitive.NewObjectID(), postID)}

	mockCollection.EXPECT().Find(ctx, bson.M{"postID": postID}).Return(mockCursor, nil)
	mockCursor.EXPECT().Close(ctx).Return(nil)
	mockCursor.EXPECT().All(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, results interface{}) error {
			*results.(*[]*Comment) = expected
			return nil
		})

	comments, err := repo.GetByPostID(ctx, postID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !reflect.DeepEqual(comments, expected) {
		t.Errorf("expected %v, but was %v", expected, comments)
	}
}

func TestGetReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockCursor := common.NewMockCursorHelper(ctrl)
	repo := &CommentRepoMongo{collection: mockCollection}

	ctx := context.Background()
	reported := testComment(primitive.NewObjectID(), primitive.NewObjectID())
	reported.Feedback = "spam"
	expected := []*Comment{reported}

	mockCollection.EXPECT().Find(ctx, bson.M{"feedback": bson.M{"$ne": ""}}).Return(mockCursor, nil)
	mockCursor.EXPECT().Close(ctx).Return(nil)
	mockCursor.EXPECT().All(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, results interface{}) error {
			*results.(*[]*Comment) = expected
			return nil
		})

	comments, err := repo.GetReported(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !reflect.DeepEqual(comments, expected) {
		t.Errorf("expected %v, but was %v", expected, comments)
	}
}

func TestAddComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockInsertOneResultHelper(ctrl)
	repo := &CommentRepoMongo{collection: mockCollection}

	ctx := context.Background()
	comment := testComment(nil, primitive.NewObjectID())
	insertedID := primitive.NewObjectID().Hex()

	mockCollection.EXPECT().InsertOne(ctx, comment).Return(mockResult, nil)
	mockResult.EXPECT().GetInsertedID().Return(insertedID)

	id, err := repo.Add(ctx, comment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if id != insertedID {
		t.Errorf("expected %v, but was %v", insertedID, id)
	}

	mockCollection.EXPECT().InsertOne(ctx, comment).Return(mockResult, errors.New("insert error"))

	if _, err = repo.Add(ctx, comment); err == nil {
		t.Fatal("expected error, but was nil")
	}
}

func TestReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockUpdateResultHelper(ctrl)
	repo := &CommentRepoMongo{collection: mockCollection}

	ctx := context.Background()
	id := primitive.NewObjectID()
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "feedback", Value: "harassment"}}},
	}

	mockCollection.EXPECT().UpdateOne(ctx, bson.M{"_id": id}, update).Return(mockResult, nil)
	mockResult.EXPECT().GetMatchedCount().Return(int64(1))

	ok, err := repo.Report(ctx, id, "harassment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !ok {
		t.Error("expected report to match the comment")
	}

	mockCollection.EXPECT().UpdateOne(ctx, bson.M{"_id": id}, update).Return(mockResult, nil)
	mockResult.EXPECT().GetMatchedCount().Return(int64(0))

	ok, err = repo.Report(ctx, id, "harassment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if ok {
		t.Error("expected report of a missing comment to report false")
	}
}

func TestDeleteComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockDeleteResultHelper(ctrl)
	repo := &CommentRepoMongo{collection: mockCollection}

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
}
