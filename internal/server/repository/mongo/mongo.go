// Package mongo stores saved books in a MongoDB collection, one document per
// book keyed by _id.
package mongo

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joshwilensky/Google-Books-Search/internal/server/repository"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

var _ repository.Repository = (*Repository)(nil)

// Repository is a MongoDB-backed saved-books repository.
type Repository struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// Connect dials uri, verifies the connection and ensures the savedAt index.
func Connect(ctx context.Context, uri, database string) (*Repository, error) {
	if database == "" {
		database = constants.DefaultMongoDatabase
	}

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.NewConfigError("mongo", "invalid connection settings", err)
	}

	// Ping the database to verify connection
	pingCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.WrapIO("ping", uri, err)
	}

	r := &Repository{
		client:  client,
		coll:    client.Database(database).Collection(constants.BooksCollection),
		timeout: constants.DatabaseTimeout,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.WrapResource("index", "collection", constants.BooksCollection, err)
	}
	return r, nil
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "savedAt", Value: -1}},
	})
	return err
}

// List returns every record, newest first.
func (r *Repository) List(ctx context.Context) ([]books.SavedRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "savedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.WrapResource("list", "saved book", "", err)
	}
	defer cursor.Close(ctx)

	out := []books.SavedRecord{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.WrapParse("bson", constants.BooksCollection, err)
	}
	return out, nil
}

// Upsert replaces the document with rec.ID, inserting it when absent.
func (r *Repository) Upsert(ctx context.Context, rec books.SavedRecord) (books.SavedRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts); err != nil {
		return books.SavedRecord{}, errors.WrapResource("save", "saved book", rec.ID, err)
	}
	return rec, nil
}

// Delete removes the document with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.WrapResource("delete", "saved book", id, err)
	}
	if res.DeletedCount == 0 {
		return errors.NewNotFoundError("saved book", id)
	}
	return nil
}

// Get returns the record with id.
func (r *Repository) Get(ctx context.Context, id string) (books.SavedRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rec books.SavedRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return books.SavedRecord{}, errors.NewNotFoundError("saved book", id)
		}
		return books.SavedRecord{}, errors.WrapResource("get", "saved book", id, err)
	}
	return rec, nil
}

// Ping checks the primary is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
