package announcements

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

func testAnnouncement(id interface{}) *Announcement {
	return &Announcement{
		ID:       id,
		Title:    "Scheduled maintenance",
		Message:  "The site will be read-only on Sunday.",
		PostedAt: time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC),
		Author:   Author{Name: "Ops", Image: "https://cdn.example.com/ops.png", Role: "admin"},
	}
}

func TestGetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockCursor := common.NewMockCursorHelper(ctrl)
	repo := &AnnouncementsRepoMongo{collection: mockCollection}

	ctx := context.Background()
	expected := []*Announcement{testAnnouncement(primitive.NewObjectID())}

	mockCollection.EXPECT().Find(ctx, bson.M{}, gomock.Any()).Return(mockCursor, nil)
	mockCursor.EXPECT().Close(ctx).Return(nil)
	mockCursor.EXPECT().All(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, results interface{}) error {
			*results.(*[]*Announcement) = expected
			return nil
		})

	result, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %v, but was %v", expected, result)
	}
}

func TestCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	repo := &AnnouncementsRepoMongo{collection: mockCollection}

	ctx := context.Background()

	mockCollection.EXPECT().CountDocuments(ctx, bson.M{}).Return(int64(7), nil)

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if count != 7 {
		t.Errorf("expected 7, but was %d", count)
	}
}

func TestAddAnnouncement(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockInsertOneResultHelper(ctrl)
	repo := &AnnouncementsRepoMongo{collection: mockCollection}

	ctx := context.Background()
	a := testAnnouncement(nil)
	insertedID := primitive.NewObjectID().Hex()

	mockCollection.EXPECT().InsertOne(ctx, a).Return(mockResult, nil)
	mockResult.EXPECT().GetInsertedID().Return(insertedID)

	id, err := repo.Add(ctx, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if id != insertedID {
		t.Errorf("expected %v, but was %v", insertedID, id)
	}

	mockCollection.EXPECT().InsertOne(ctx, a).Return(mockResult, errors.New("insert error"))

	if _, err = repo.Add(ctx, a); err == nil {
		t.Fatal("expected error, but was nil")
	}
}

func TestDeleteAnnouncement(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCollection := common.NewMockCollectionHelper(ctrl)
	mockResult := common.NewMockDeleteResultHelper(ctrl)
	repo := &AnnouncementsRepoMongo{collection: mockCollection}

	ctx := context.Background()
	id := primitive.NewObjectID()

	mockCollection.EXPECT().DeleteOne(ctx, bson.M{"_id": id}).Return(mockResult, nil)
	mockResult.EXPECT().GetDeletedCount().Return(int64(0))

	ok, err := repo.Delete(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if ok {
		t.Error("expected delete of a missing announcement to report false")
	}
}
