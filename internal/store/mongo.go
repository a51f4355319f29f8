package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultMongoDatabase = "blog"
	postsCollection      = "posts"
)

// mongoPost is the document stored for each post.
type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    mongoAuthor        `bson:"author"`
	Published time.Time          `bson:"published"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type mongoAuthor struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
}

// MongoStore keeps posts as documents in the posts collection.
// Post ids are the hex form of the document ObjectID.
type MongoStore struct {
	client *mongo.Client
	posts  *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
}

// OpenMongo connects to the server named by opts.URL. The database is taken from the URL path,
// falling back to opts.DatabaseName and then "blog".
func OpenMongo(ctx context.Context, opts Options) (*MongoStore, error) {
	dbName, err := MongoDatabaseName(opts.URL, opts.DatabaseName)
	if err != nil {
		return nil, err
	}

	clientOpts := options.Client().ApplyURI(opts.URL)
	if opts.MaxConnections > 0 {
		clientOpts.SetMaxPoolSize(uint64(opts.MaxConnections))
	}
	if opts.MinConnections > 0 {
		clientOpts.SetMinPoolSize(uint64(opts.MinConnections))
	}
	if opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(opts.MaxConnIdleTime)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging mongodb: %w", err)
	}

	s := &MongoStore{
		client: client,
		posts:  client.Database(dbName).Collection(postsCollection),
		logger: opts.logger(),
		now:    time.Now,
	}

	if opts.AutoMigrate {
		if err := s.ensureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}

	s.logger.Info("connected to mongodb", slog.String("database", dbName))
	return s, nil
}

// MongoDatabaseName returns the database a mongodb URL refers to: the URL path,
// else fallback, else "blog".
func MongoDatabaseName(raw, fallback string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse mongodb URL: %w", err)
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return defaultMongoDatabase, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("posts_created_at_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}
	s.logger.Info("ensured mongodb indexes", slog.String("collection", postsCollection))
	return nil
}

func (s *MongoStore) Backend() string { return "mongodb" }

func (s *MongoStore) ListPosts(ctx context.Context) ([]blog.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	posts := make([]blog.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toPost())
	}
	return posts, nil
}

func (s *MongoStore) GetPost(ctx context.Context, id string) (blog.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return blog.Post{}, err
	}

	var doc mongoPost
	if err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return blog.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return blog.Post{}, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return doc.toPost(), nil
}

func (s *MongoStore) CreatePost(ctx context.Context, post blog.Post) (blog.Post, error) {
	doc := s.newDocument(post)
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return blog.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return doc.toPost(), nil
}

// CreatePosts inserts the batch with a single ordered InsertMany.
// Without a replica set there are no transactions, so a failed batch is removed by id.
func (s *MongoStore) CreatePosts(ctx context.Context, posts []blog.Post) (int64, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	docs := make([]mongoPost, 0, len(posts))
	for i, p := range posts {
		// the collection has no constraints, so check the batch before any of it is written
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("post %d: %w", i, err)
		}
		docs = append(docs, s.newDocument(p))
	}

	return insertBatch(ctx, s.posts, docs, s.logger)
}

// batchCollection is the part of *mongo.Collection used by insertBatch
type batchCollection interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

func insertBatch(ctx context.Context, coll batchCollection, docs []mongoPost, logger *slog.Logger) (int64, error) {
	batch := make([]interface{}, 0, len(docs))
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		batch = append(batch, d)
		ids = append(ids, d.ID)
	}

	res, err := coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(true))
	if err != nil {
		// an ordered insert keeps the documents before the failure
		if _, delErr := coll.DeleteMany(context.WithoutCancel(ctx), bson.M{"_id": bson.M{"$in": ids}}); delErr != nil {
			logger.Error("failed to remove partially inserted batch",
				slog.Int("posts", len(docs)),
				slog.Any("error", delErr))
		}
		return 0, fmt.Errorf("failed to insert %d posts: %w", len(docs), err)
	}
	return int64(len(res.InsertedIDs)), nil
}

func (s *MongoStore) UpdatePost(ctx context.Context, id string, update blog.PostUpdate) (blog.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return blog.Post{}, err
	}

	set := bson.M{"updated_at": s.now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.AuthorFirstName != nil {
		set["author.firstName"] = *update.AuthorFirstName
	}
	if update.AuthorLastName != nil {
		set["author.lastName"] = *update.AuthorLastName
	}

	var doc mongoPost
	err = s.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return blog.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return blog.Post{}, fmt.Errorf("failed to update post %s: %w", id, err)
	}
	return doc.toPost(), nil
}

func (s *MongoStore) DeletePost(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) CountPosts(ctx context.Context) (int64, error) {
	n, err := s.posts.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// Truncate removes every document but keeps the collection and its indexes
func (s *MongoStore) Truncate(ctx context.Context) error {
	if _, err := s.posts.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to truncate posts: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	s.logger.Info("database connection closed")
	return nil
}

func (s *MongoStore) newDocument(p blog.Post) mongoPost {
	// mongo stores millisecond precision
	now := s.now().UTC().Truncate(time.Millisecond)
	return mongoPost{
		ID:      primitive.NewObjectID(),
		Title:   p.Title,
		Content: p.Content,
		Author: mongoAuthor{
			FirstName: p.Author.FirstName,
			LastName:  p.Author.LastName,
		},
		Published: p.Published.UTC().Truncate(time.Millisecond),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d mongoPost) toPost() blog.Post {
	return blog.Post{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Content: d.Content,
		Author: blog.Author{
			FirstName: d.Author.FirstName,
			LastName:  d.Author.LastName,
		},
		Published: d.Published.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return oid, nil
}
