package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection       = "users"
	tagsCollection        = "tags"
	columnsCollection     = "columns"
	tasksCollection       = "tasks"
	credentialsCollection = "credentials"
)

// Connect opens a client for uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		usersCollection:   {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		columnsCollection: {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		credentialsCollection: {
			{Keys: bson.D{{Key: "login", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "accessToken", Value: 1}}, Options: unique},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "column", Value: 1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// NewRepositories returns the mongo-backed repositories over db.
func NewRepositories(db *mongo.Database) repository.Repositories {
	return repository.Repositories{
		Users:       NewUserRepository(db),
		Tags:        NewTagRepository(db),
		Columns:     NewColumnRepository(db),
		Tasks:       NewTaskRepository(db),
		Credentials: NewCredentialRepository(db),
	}
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	}
	return err
}

func pageOptions(page model.Page) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.PerPage))
}

// list runs a paginated find over coll and decodes the page into out.
func list(ctx context.Context, coll *mongo.Collection, filter interface{}, page model.Page, out interface{}) (int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	cursor, err := coll.Find(ctx, filter, pageOptions(page))
	if err != nil {
		return 0, err
	}
	if err := cursor.All(ctx, out); err != nil {
		return 0, err
	}
	return total, nil
}

// setAndReturn applies $set to the document with id and decodes the updated
// document into out.
func setAndReturn(ctx context.Context, coll *mongo.Collection, id string, set bson.M, out interface{}) error {
	if !model.IsValidID(id) {
		return repository.ErrInvalidID
	}
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(out)
	return translateError(err)
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	*created = now
	*updated = now
}
