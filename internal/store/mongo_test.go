package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
)

// fakeCollection keeps the first failAfter documents of an InsertMany and then fails,
// the way an ordered insert does on a write error
type fakeCollection struct {
	failAfter int
	stored    map[primitive.ObjectID]bool
	deletes   int
}

func (f *fakeCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	res := &mongo.InsertManyResult{}
	for i, d := range documents {
		if f.failAfter >= 0 && i == f.failAfter {
			return res, errors.New("E11000 duplicate key error")
		}
		id := d.(mongoPost).ID
		f.stored[id] = true
		res.InsertedIDs = append(res.InsertedIDs, id)
	}
	return res, nil
}

func (f *fakeCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.deletes++
	ids := filter.(bson.M)["_id"].(bson.M)["$in"].([]primitive.ObjectID)
	var n int64
	for _, id := range ids {
		if f.stored[id] {
			delete(f.stored, id)
			n++
		}
	}
	return &mongo.DeleteResult{DeletedCount: n}, nil
}

func testMongoStore() *MongoStore {
	return &MongoStore{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
}

func testDocuments(s *MongoStore, n int) []mongoPost {
	docs := make([]mongoPost, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, s.newDocument(testPost("batch")))
	}
	return docs
}

func TestMongoInsertBatch(t *testing.T) {
	ctx := context.Background()
	s := testMongoStore()

	t.Run("success", func(t *testing.T) {
		coll := &fakeCollection{failAfter: -1, stored: map[primitive.ObjectID]bool{}}

		n, err := insertBatch(ctx, coll, testDocuments(s, 3), s.logger)
		if err != nil {
			t.Fatalf("insertBatch failed: %v", err)
		}
		if n != 3 || len(coll.stored) != 3 {
			t.Errorf("expected 3 posts inserted, got n=%d stored=%d", n, len(coll.stored))
		}
		if coll.deletes != 0 {
			t.Errorf("expected no deletes after a successful batch, got %d", coll.deletes)
		}
	})

	t.Run("partial_insert_is_removed", func(t *testing.T) {
		coll := &fakeCollection{failAfter: 2, stored: map[primitive.ObjectID]bool{}}

		n, err := insertBatch(ctx, coll, testDocuments(s, 4), s.logger)
		if err == nil {
			t.Fatal("expected failed batch to return an error")
		}
		if n != 0 {
			t.Errorf("expected 0 posts reported, got %d", n)
		}
		if coll.deletes != 1 {
			t.Errorf("expected one delete of the batch, got %d", coll.deletes)
		}
		if len(coll.stored) != 0 {
			t.Errorf("expected failed batch to leave no posts, %d remain", len(coll.stored))
		}
	})
}

func TestMongoCreatePostsRejectsInvalidBatch(t *testing.T) {
	s := testMongoStore()

	bad := testPost("bad")
	bad.Content = ""

	// the collection is nil: an invalid batch must fail before any write
	_, err := s.CreatePosts(context.Background(), []blog.Post{testPost("good"), bad})
	if err == nil {
		t.Fatal("expected batch with empty content to be rejected")
	}
	var blogErr *blog.BlogError
	if !errors.As(err, &blogErr) || blogErr.Code() != blog.ErrCodeValidation {
		t.Errorf("expected a validation error, got %v", err)
	}
}
